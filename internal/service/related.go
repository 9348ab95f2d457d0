package service

import (
	"log"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/user/vidgate/internal/model"
	"github.com/user/vidgate/internal/repository"
	"github.com/user/vidgate/internal/utils"
)

// RelatedService 基于向量相似度的相关视频推荐
type RelatedService struct {
	videos     *repository.VideoRepository
	embeddings *utils.EmbeddingClient
}

// NewRelatedService 创建推荐服务
func NewRelatedService(videos *repository.VideoRepository, embeddings *utils.EmbeddingClient) *RelatedService {
	return &RelatedService{
		videos:     videos,
		embeddings: embeddings,
	}
}

// EmbeddingContent 拼接用于向量化的文本
func EmbeddingContent(v *model.Video) string {
	parts := []string{v.DisplayTitle()}
	if v.Description != "" {
		parts = append(parts, v.Description)
	}
	parts = append(parts, v.DisplayCategory())
	if len(v.Tags) > 0 {
		parts = append(parts, strings.Join(v.Tags, " "))
	}
	return strings.Join(parts, "\n")
}

// EnsureEmbedding 为视频生成/刷新向量，内容没变则跳过
// 向量生成失败只记日志：推荐是锦上添花，不阻塞上传流程
func (s *RelatedService) EnsureEmbedding(video *model.Video) {
	content := EmbeddingContent(video)
	if video.Embedding != nil && video.EmbeddingContent == content {
		return
	}

	vec, err := s.embeddings.Generate(content)
	if err != nil {
		log.Printf("[RelatedService] 生成向量失败 video=%d: %v", video.ID, err)
		return
	}

	v := pgvector.NewVector(vec)
	if err := s.videos.UpdateEmbedding(video.ID, content, v); err != nil {
		log.Printf("[RelatedService] 保存向量失败 video=%d: %v", video.ID, err)
	}
}

// FindRelated 查找相关视频
func (s *RelatedService) FindRelated(videoID, limit int) ([]*model.Video, error) {
	if limit <= 0 {
		limit = 6
	}
	return s.videos.FindSimilar(videoID, limit)
}
