package repository

import (
	"errors"

	"github.com/user/vidgate/internal/model"
	"gorm.io/gorm"
)

type PlaylistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create 创建播放列表（视频快照在 service 层组装完毕后整体落库）
func (r *PlaylistRepository) Create(playlist *model.Playlist) error {
	return r.db.Create(playlist).Error
}

// FindByShareID 根据对外分享 ID 查找
func (r *PlaylistRepository) FindByShareID(shareID string) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.db.Where("share_id = ?", shareID).First(&playlist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &playlist, nil
}

// ListByUser 获取用户的播放列表
func (r *PlaylistRepository) ListByUser(userID int) ([]*model.Playlist, error) {
	var playlists []*model.Playlist
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&playlists).Error
	return playlists, err
}

// UpdateUnlocked 推进解锁游标
// 条件带 unlocked < ? 保证游标只增不减：并发双开标签页时后写胜出，
// 但永远不会把已解锁的视频重新锁回去
func (r *PlaylistRepository) UpdateUnlocked(id int, unlocked int) error {
	return r.db.Model(&model.Playlist{}).
		Where("id = ? AND unlocked < ?", id, unlocked).
		Update("unlocked", unlocked).Error
}

// Count 播放列表总数
func (r *PlaylistRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Playlist{}).Count(&count).Error
	return count, err
}
