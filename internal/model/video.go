package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// Video 视频目录条目（媒体内容托管在 Cloudinary，这里只保存定位符）
type Video struct {
	ID               int              `json:"id" db:"id"`
	Title            string           `json:"title" db:"title"`
	Description      string           `json:"description" db:"description"`
	Category         string           `json:"category" db:"category" gorm:"index"`
	Duration         string           `json:"duration" db:"duration"` // 展示用时长字符串，如 "12:30"
	VideoURL         string           `json:"video_url" db:"video_url"`
	ThumbnailURL     string           `json:"thumbnail_url" db:"thumbnail_url"`
	PublicID         string           `json:"public_id" db:"public_id"`
	Tags             pq.StringArray   `json:"tags" db:"tags" gorm:"type:text[]"`
	EmbeddingContent string           `json:"embedding_content" db:"embedding_content"`
	Embedding        *pgvector.Vector `json:"-" db:"embedding" gorm:"type:vector(768)"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at" gorm:"index"`
}

// DisplayTitle 标题兜底：空标题回退为占位标题
func (v *Video) DisplayTitle() string {
	if v.Title == "" {
		return "未命名视频"
	}
	return v.Title
}

// DisplayCategory 分类兜底
func (v *Video) DisplayCategory() string {
	if v.Category == "" {
		return "未分类"
	}
	return v.Category
}
