package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/user/vidgate/internal/model"
)

// VideoState 播放列表中单个视频的解锁状态，由 Unlocked 游标派生
type VideoState int

const (
	StateLocked   VideoState = iota // 未解锁，不可播放
	StatePlayable                   // 已解锁
)

// 播放完上一个视频后才能解锁下一个，这里是相关的业务错误
var (
	ErrVideoLocked  = errors.New("视频尚未解锁")
	ErrIndexInvalid = errors.New("视频下标越界")
	ErrNotOwner     = errors.New("不是该播放列表的拥有者")
)

// StateOf 派生下标 index 处视频的状态
func StateOf(unlocked, index int) VideoState {
	if index < unlocked {
		return StatePlayable
	}
	return StateLocked
}

// Advance 纯转移函数：下标 index 的视频自然播完后，计算新的解锁游标
// 规则：
//   - index 必须已解锁（index < unlocked），否则拒绝推进
//   - 新游标 = min(index+2, total)，即下一个视频变为可播放
//   - 游标只增不减；已达 total 时不再变化
//
// 返回新游标和是否发生了变化
func Advance(unlocked, index, total int) (int, bool) {
	if total <= 0 || index < 0 || index >= total {
		return unlocked, false
	}
	if StateOf(unlocked, index) == StateLocked {
		return unlocked, false
	}

	next := index + 2
	if next > total {
		next = total
	}
	if next <= unlocked {
		return unlocked, false
	}
	return next, true
}

// seekTolerance 播放位置单次前跳的容忍秒数，超过视为拖进度条，强制回退
const seekTolerance = 1.0

// playbackSession 一次播放会话的瞬态进度（不落库）
type playbackSession struct {
	Index     int       // 当前播放的下标
	Position  float64   // 最近一次合法播放位置（秒）
	StartedAt time.Time // 本段播放的起始锚点，零值表示未在播放
}

// PlaylistStore 解锁状态机需要的播放列表持久化能力
type PlaylistStore interface {
	UpdateUnlocked(id int, unlocked int) error
}

// WatchEventStore 观看事件日志写入能力
type WatchEventStore interface {
	Append(event *model.WatchEvent) error
	HasCompleted(userID, videoID int) (bool, error)
}

// UnlockService 顺序解锁状态机
// 播放器上报的每个生命周期事件都会追加一条 WatchEvent，
// end 事件额外触发 Advance 并持久化新游标
type UnlockService struct {
	playlists PlaylistStore
	events    WatchEventStore
	sessions  *cache.Cache
}

// NewUnlockService 创建解锁服务
func NewUnlockService(playlists PlaylistStore, events WatchEventStore) *UnlockService {
	return &UnlockService{
		playlists: playlists,
		events:    events,
		// 播放会话 2 小时无活动后过期
		sessions: cache.New(2*time.Hour, 30*time.Minute),
	}
}

func sessionKey(userID, playlistID int) string {
	return fmt.Sprintf("%d:%d", userID, playlistID)
}

func (s *UnlockService) session(userID, playlistID int) *playbackSession {
	if v, ok := s.sessions.Get(sessionKey(userID, playlistID)); ok {
		return v.(*playbackSession)
	}
	sess := &playbackSession{}
	s.sessions.SetDefault(sessionKey(userID, playlistID), sess)
	return sess
}

// Play 开始/恢复播放，记录锚点并追加 play 事件
func (s *UnlockService) Play(user model.SessionUser, playlist *model.Playlist, index int) error {
	if playlist.UserID != user.ID {
		return ErrNotOwner
	}
	video := playlist.VideoAt(index)
	if video == nil {
		return ErrIndexInvalid
	}
	if StateOf(playlist.Unlocked, index) == StateLocked {
		return ErrVideoLocked
	}

	sess := s.session(user.ID, playlist.ID)
	sess.Index = index
	sess.StartedAt = time.Now()

	return s.append(user, playlist, video, model.EventPlay, 0, false)
}

// Pause 暂停播放，追加携带本段时长的 pause 事件
// 没有处于播放中的会话时不产生事件
func (s *UnlockService) Pause(user model.SessionUser, playlist *model.Playlist, index int) (float64, error) {
	if playlist.UserID != user.ID {
		return 0, ErrNotOwner
	}
	video := playlist.VideoAt(index)
	if video == nil {
		return 0, ErrIndexInvalid
	}

	sess := s.session(user.ID, playlist.ID)
	if sess.StartedAt.IsZero() || sess.Index != index {
		return 0, nil
	}

	duration := time.Since(sess.StartedAt).Seconds()
	sess.StartedAt = time.Time{}

	if err := s.append(user, playlist, video, model.EventPause, duration, false); err != nil {
		return 0, err
	}
	return duration, nil
}

// ReportProgress 播放位置上报
// 前跳超过容忍值视为拖进度条，返回回退后的位置和 false；
// 合法位置被记为新的锚点。这是持续执行的策略，不算错误
func (s *UnlockService) ReportProgress(user model.SessionUser, playlist *model.Playlist, index int, position float64) (float64, bool) {
	sess := s.session(user.ID, playlist.ID)
	if sess.Index != index {
		return sess.Position, false
	}

	if position-sess.Position > seekTolerance {
		return sess.Position, false
	}
	if position >= 0 {
		sess.Position = position
	}
	return sess.Position, true
}

// EndResult End 的处理结果
type EndResult struct {
	WatchDuration float64 `json:"watch_duration"`
	Unlocked      int     `json:"unlocked"`
	Advanced      bool    `json:"advanced"` // 是否解锁了下一个视频
}

// End 自然播完：追加 completed 事件，推进并持久化解锁游标
// 游标持久化失败时内存状态不推进，错误上抛由用户手动重试
func (s *UnlockService) End(user model.SessionUser, playlist *model.Playlist, index int) (*EndResult, error) {
	if playlist.UserID != user.ID {
		return nil, ErrNotOwner
	}
	video := playlist.VideoAt(index)
	if video == nil {
		return nil, ErrIndexInvalid
	}
	if StateOf(playlist.Unlocked, index) == StateLocked {
		return nil, ErrVideoLocked
	}

	sess := s.session(user.ID, playlist.ID)
	var duration float64
	if !sess.StartedAt.IsZero() && sess.Index == index {
		duration = time.Since(sess.StartedAt).Seconds()
	}

	if err := s.append(user, playlist, video, model.EventEnd, duration, true); err != nil {
		return nil, err
	}

	newUnlocked, changed := Advance(playlist.Unlocked, index, playlist.Len())
	if changed {
		if err := s.playlists.UpdateUnlocked(playlist.ID, newUnlocked); err != nil {
			// 持久化失败：不更新内存游标，保证缓存与库中状态不分叉
			return nil, fmt.Errorf("解锁下一个视频失败: %w", err)
		}
		playlist.Unlocked = newUnlocked
	}

	sess.StartedAt = time.Time{}
	sess.Position = 0

	return &EndResult{
		WatchDuration: duration,
		Unlocked:      playlist.Unlocked,
		Advanced:      changed,
	}, nil
}

// Switch 切换当前播放的视频
// 目标未解锁时拒绝；切走时若上一个视频还在播放中，记一条 skipped 事件
func (s *UnlockService) Switch(user model.SessionUser, playlist *model.Playlist, index int) error {
	if playlist.UserID != user.ID {
		return ErrNotOwner
	}
	if playlist.VideoAt(index) == nil {
		return ErrIndexInvalid
	}
	if StateOf(playlist.Unlocked, index) == StateLocked {
		return ErrVideoLocked
	}

	sess := s.session(user.ID, playlist.ID)
	if !sess.StartedAt.IsZero() && sess.Index != index {
		if prev := playlist.VideoAt(sess.Index); prev != nil {
			duration := time.Since(sess.StartedAt).Seconds()
			event := &model.WatchEvent{
				VideoID:       prev.VideoID,
				VideoTitle:    prev.Title,
				UserID:        user.ID,
				UserEmail:     user.Email,
				PlaylistID:    &playlist.ID,
				Kind:          model.EventPause,
				WatchDuration: duration,
				Skipped:       true,
				WatchedAt:     time.Now(),
			}
			if err := s.events.Append(event); err != nil {
				return err
			}
		}
	}

	// 切换后清零瞬态进度
	sess.Index = index
	sess.Position = 0
	sess.StartedAt = time.Time{}
	return nil
}

// SweepSessions 清理过期播放会话
func (s *UnlockService) SweepSessions() {
	s.sessions.DeleteExpired()
}

// append 构造并追加观看事件，rewatched 由服务端按历史 completed 事件计算
func (s *UnlockService) append(user model.SessionUser, playlist *model.Playlist, video *model.PlaylistVideo, kind string, duration float64, completed bool) error {
	if duration < 0 {
		duration = 0
	}

	rewatched, err := s.events.HasCompleted(user.ID, video.VideoID)
	if err != nil {
		return err
	}

	event := &model.WatchEvent{
		VideoID:       video.VideoID,
		VideoTitle:    video.Title,
		UserID:        user.ID,
		UserEmail:     user.Email,
		PlaylistID:    &playlist.ID,
		Kind:          kind,
		WatchDuration: duration,
		Completed:     completed,
		Rewatched:     rewatched,
		WatchedAt:     time.Now(),
	}
	return s.events.Append(event)
}
