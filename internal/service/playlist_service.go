package service

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/user/vidgate/internal/model"
	"github.com/user/vidgate/internal/repository"
)

var (
	ErrEmptySelection = errors.New("请至少选择一个视频")
	ErrVideosMissing  = errors.New("所选视频不存在")
)

// PlaylistService 播放列表创建流程
type PlaylistService struct {
	videos    *repository.VideoRepository
	playlists *repository.PlaylistRepository
	email     *EmailService
	siteURL   string
}

// NewPlaylistService 创建播放列表服务
func NewPlaylistService(videos *repository.VideoRepository, playlists *repository.PlaylistRepository, email *EmailService, siteURL string) *PlaylistService {
	return &PlaylistService{
		videos:    videos,
		playlists: playlists,
		email:     email,
		siteURL:   siteURL,
	}
}

// ShareURL 播放列表的对外链接
func (s *PlaylistService) ShareURL(playlist *model.Playlist) string {
	return s.siteURL + "/playlist/" + playlist.ShareID
}

// Create 按用户勾选的视频创建播放列表
// 视频字段在此刻快照进列表，之后目录编辑不影响已有列表；
// 解锁游标初始为 1（只有第一个视频可播放）。
// 列表落库成功后才尝试发通知邮件，邮件失败不回滚创建，
// 通过第二个返回值告知调用方是否送达
func (s *PlaylistService) Create(user model.SessionUser, videoIDs []int) (*model.Playlist, bool, error) {
	// 校验在任何 I/O 之前完成
	if len(videoIDs) == 0 {
		return nil, false, ErrEmptySelection
	}

	catalog, err := s.videos.FindByIDs(videoIDs)
	if err != nil {
		return nil, false, err
	}
	byID := make(map[int]*model.Video, len(catalog))
	for _, v := range catalog {
		byID[v.ID] = v
	}

	// 保持勾选顺序组装快照，勾选顺序即播放顺序
	snapshots := make([]model.PlaylistVideo, 0, len(videoIDs))
	for _, id := range videoIDs {
		v, ok := byID[id]
		if !ok {
			return nil, false, ErrVideosMissing
		}
		snapshots = append(snapshots, model.PlaylistVideo{
			VideoID:      v.ID,
			Title:        v.DisplayTitle(),
			Description:  v.Description,
			Category:     v.DisplayCategory(),
			Duration:     v.Duration,
			VideoURL:     v.VideoURL,
			ThumbnailURL: v.ThumbnailURL,
			PublicID:     v.PublicID,
			Tags:         v.Tags,
		})
	}

	playlist := &model.Playlist{
		ShareID:   uuid.NewString(),
		UserID:    user.ID,
		UserEmail: user.Email,
		Videos:    snapshots,
		Unlocked:  1,
		CreatedAt: time.Now(),
	}
	if err := s.playlists.Create(playlist); err != nil {
		return nil, false, err
	}

	// 创建已提交，邮件是尽力而为的附带通知
	emailSent := false
	if s.email.Enabled() {
		if err := s.email.SendPlaylistReady(user.Email, s.ShareURL(playlist)); err != nil {
			log.Printf("[PlaylistService] 通知邮件发送失败 user=%d: %v", user.ID, err)
		} else {
			emailSent = true
		}
	}

	return playlist, emailSent, nil
}
