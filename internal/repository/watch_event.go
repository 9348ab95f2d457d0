package repository

import (
	"github.com/user/vidgate/internal/model"
	"gorm.io/gorm"
)

// WatchEventRepository 观看事件日志
// 只追加：这里只有 Append 和各种读取，没有更新和删除
type WatchEventRepository struct {
	db *gorm.DB
}

func NewWatchEventRepository(db *gorm.DB) *WatchEventRepository {
	return &WatchEventRepository{db: db}
}

// Append 追加一条观看事件（WatchedAt 由服务端赋值）
func (r *WatchEventRepository) Append(event *model.WatchEvent) error {
	return r.db.Create(event).Error
}

// ListAll 全量事件（聚合分析用）
func (r *WatchEventRepository) ListAll() ([]*model.WatchEvent, error) {
	var events []*model.WatchEvent
	err := r.db.Order("watched_at ASC").Find(&events).Error
	return events, err
}

// ListRecent 最近事件（管理后台明细页，按时间倒序）
func (r *WatchEventRepository) ListRecent(limit int) ([]*model.WatchEvent, error) {
	var events []*model.WatchEvent
	err := r.db.Order("watched_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

// HasCompleted 该用户是否已经完整看过该视频（rewatched 标记的依据）
func (r *WatchEventRepository) HasCompleted(userID, videoID int) (bool, error) {
	var count int64
	err := r.db.Model(&model.WatchEvent{}).
		Where("user_id = ? AND video_id = ? AND completed = true", userID, videoID).
		Count(&count).Error
	return count > 0, err
}

// Count 事件总数
func (r *WatchEventRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.WatchEvent{}).Count(&count).Error
	return count, err
}
