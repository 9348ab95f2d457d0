package repository

import (
	"time"

	"github.com/user/vidgate/internal/model"
	"gorm.io/gorm"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create 提交反馈
func (r *FeedbackRepository) Create(userID *int, email, content string) error {
	feedback := &model.Feedback{
		UserID:    userID,
		UserEmail: email,
		Content:   content,
		Status:    "pending",
		CreatedAt: time.Now(),
	}
	return r.db.Create(feedback).Error
}

// ListAll 反馈列表（按时间倒序）
func (r *FeedbackRepository) ListAll(limit int) ([]*model.Feedback, error) {
	var feedbacks []*model.Feedback
	err := r.db.Order("created_at DESC").Limit(limit).Find(&feedbacks).Error
	return feedbacks, err
}

type RecommendationRepository struct {
	db *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// Create 提交选题推荐
func (r *RecommendationRepository) Create(userID *int, email, title, reason string) error {
	rec := &model.Recommendation{
		UserID:    userID,
		UserEmail: email,
		Title:     title,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
	return r.db.Create(rec).Error
}

// ListAll 推荐列表
func (r *RecommendationRepository) ListAll(limit int) ([]*model.Recommendation, error) {
	var recs []*model.Recommendation
	err := r.db.Order("created_at DESC").Limit(limit).Find(&recs).Error
	return recs, err
}
