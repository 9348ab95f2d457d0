package repository

import (
	"errors"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/user/vidgate/internal/model"
	"gorm.io/gorm"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create 新增视频
func (r *VideoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

// FindByID 根据 ID 查找视频
func (r *VideoRepository) FindByID(id int) (*model.Video, error) {
	var video model.Video
	err := r.db.First(&video, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &video, nil
}

// FindByIDs 按 ID 集合批量查找（用于播放列表快照）
func (r *VideoRepository) FindByIDs(ids []int) ([]*model.Video, error) {
	var videos []*model.Video
	err := r.db.Where("id IN ?", ids).Find(&videos).Error
	return videos, err
}

// ListAll 目录全量列表（按上传时间倒序）
func (r *VideoRepository) ListAll() ([]*model.Video, error) {
	var videos []*model.Video
	err := r.db.Order("created_at DESC").Find(&videos).Error
	return videos, err
}

// ListByCategory 按分类列出
func (r *VideoRepository) ListByCategory(category string) ([]*model.Video, error) {
	var videos []*model.Video
	err := r.db.Where("category = ?", category).Order("created_at DESC").Find(&videos).Error
	return videos, err
}

// Count 视频总数
func (r *VideoRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Video{}).Count(&count).Error
	return count, err
}

// Update 更新视频元数据（不触碰媒体定位符以外的托管内容）
func (r *VideoRepository) Update(video *model.Video) error {
	return r.db.Model(&model.Video{}).Where("id = ?", video.ID).Updates(map[string]interface{}{
		"title":       video.Title,
		"description": video.Description,
		"category":    video.Category,
		"duration":    video.Duration,
		"tags":        pq.StringArray(video.Tags),
	}).Error
}

// UpdateEmbedding 保存向量
func (r *VideoRepository) UpdateEmbedding(videoID int, content string, vec pgvector.Vector) error {
	return r.db.Model(&model.Video{}).Where("id = ?", videoID).Updates(map[string]interface{}{
		"embedding_content": content,
		"embedding":         vec,
	}).Error
}

// FindSimilar 按向量余弦距离查找相关视频
func (r *VideoRepository) FindSimilar(videoID int, limit int) ([]*model.Video, error) {
	var videos []*model.Video
	err := r.db.Raw(`
		SELECT v.id, v.title, v.description, v.category, v.duration,
		       v.video_url, v.thumbnail_url, v.public_id, v.tags, v.created_at
		FROM videos v, (SELECT embedding FROM videos WHERE id = $1) src
		WHERE v.id != $1 AND v.embedding IS NOT NULL AND src.embedding IS NOT NULL
		ORDER BY v.embedding <=> src.embedding
		LIMIT $2
	`, videoID, limit).Scan(&videos).Error
	return videos, err
}

// Delete 删除视频
func (r *VideoRepository) Delete(id int) error {
	return r.db.Delete(&model.Video{}, id).Error
}
