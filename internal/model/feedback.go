package model

import (
	"time"
)

// Feedback 用户反馈
type Feedback struct {
	ID        int       `json:"id" db:"id"`
	UserID    *int      `json:"user_id" db:"user_id"`
	UserEmail string    `json:"user_email" db:"user_email"`
	Content   string    `json:"content" db:"content"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Recommendation 用户的选题推荐（希望站点补充的视频）
type Recommendation struct {
	ID        int       `json:"id" db:"id"`
	UserID    *int      `json:"user_id" db:"user_id"`
	UserEmail string    `json:"user_email" db:"user_email"`
	Title     string    `json:"title" db:"title"`
	Reason    string    `json:"reason" db:"reason"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
