package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/vidgate/internal/model"
)

type fakePlaylistStore struct {
	updated map[int]int
	err     error
}

func (f *fakePlaylistStore) UpdateUnlocked(id int, unlocked int) error {
	if f.err != nil {
		return f.err
	}
	if f.updated == nil {
		f.updated = make(map[int]int)
	}
	f.updated[id] = unlocked
	return nil
}

type fakeEventStore struct {
	events    []*model.WatchEvent
	completed map[int]bool
}

func (f *fakeEventStore) Append(e *model.WatchEvent) error {
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEventStore) HasCompleted(userID, videoID int) (bool, error) {
	return f.completed[videoID], nil
}

func testPlaylist(n, unlocked int) *model.Playlist {
	videos := make([]model.PlaylistVideo, n)
	for i := range videos {
		videos[i] = model.PlaylistVideo{
			VideoID:  i + 100,
			Title:    "视频",
			VideoURL: "https://example.com/v.mp4",
		}
	}
	return &model.Playlist{
		ID:       1,
		ShareID:  "share-1",
		UserID:   7,
		Videos:   videos,
		Unlocked: unlocked,
	}
}

var owner = model.SessionUser{ID: 7, Email: "user@example.com"}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name     string
		unlocked int
		index    int
		total    int
		want     int
		changed  bool
	}{
		{"播完第一个解锁第二个", 1, 0, 5, 2, true},
		{"播完第二个解锁第三个", 2, 1, 5, 3, true},
		{"重看已解锁的视频不回退游标", 3, 0, 5, 3, false},
		{"未解锁的下标不推进", 2, 3, 5, 2, false},
		{"最后一个视频封顶到总数", 5, 4, 5, 5, false},
		{"倒数第二个播完解锁到总数", 4, 3, 5, 5, true},
		{"下标越界", 1, 5, 5, 1, false},
		{"负下标", 1, -1, 5, 1, false},
		{"空列表", 1, 0, 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := Advance(tt.unlocked, tt.index, tt.total)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)

			// 游标只增不减
			assert.GreaterOrEqual(t, got, tt.unlocked)
		})
	}
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StatePlayable, StateOf(1, 0))
	assert.Equal(t, StateLocked, StateOf(1, 1))
	assert.Equal(t, StateLocked, StateOf(2, 4))
	assert.Equal(t, StatePlayable, StateOf(3, 2))
}

func TestEndAdvancesAndPersists(t *testing.T) {
	playlists := &fakePlaylistStore{}
	events := &fakeEventStore{}
	svc := NewUnlockService(playlists, events)
	playlist := testPlaylist(5, 1)

	require.NoError(t, svc.Play(owner, playlist, 0))

	result, err := svc.End(owner, playlist, 0)
	require.NoError(t, err)
	assert.True(t, result.Advanced)
	assert.Equal(t, 2, result.Unlocked)
	assert.Equal(t, 2, playlist.Unlocked)
	assert.Equal(t, 2, playlists.updated[playlist.ID])

	// play + end 各一条事件，end 标记 completed
	require.Len(t, events.events, 2)
	last := events.events[1]
	assert.Equal(t, model.EventEnd, last.Kind)
	assert.True(t, last.Completed)
	assert.Equal(t, playlist.Videos[0].VideoID, last.VideoID)
	assert.Equal(t, owner.Email, last.UserEmail)
	assert.False(t, last.WatchedAt.IsZero())
}

func TestEndLockedVideoRejected(t *testing.T) {
	svc := NewUnlockService(&fakePlaylistStore{}, &fakeEventStore{})
	playlist := testPlaylist(5, 2)

	// 下标 3 还没解锁，直接上报 end 不能推进游标
	_, err := svc.End(owner, playlist, 3)
	assert.ErrorIs(t, err, ErrVideoLocked)
	assert.Equal(t, 2, playlist.Unlocked)
}

func TestEndPersistFailureKeepsCursor(t *testing.T) {
	playlists := &fakePlaylistStore{err: errors.New("连接已断开")}
	svc := NewUnlockService(playlists, &fakeEventStore{})
	playlist := testPlaylist(3, 1)

	_, err := svc.End(owner, playlist, 0)
	require.Error(t, err)
	// 持久化失败时内存游标保持原值
	assert.Equal(t, 1, playlist.Unlocked)
}

func TestEndNotOwner(t *testing.T) {
	svc := NewUnlockService(&fakePlaylistStore{}, &fakeEventStore{})
	playlist := testPlaylist(3, 1)

	stranger := model.SessionUser{ID: 99, Email: "other@example.com"}
	_, err := svc.End(stranger, playlist, 0)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestRewatchFlagFromHistory(t *testing.T) {
	events := &fakeEventStore{completed: map[int]bool{100: true}}
	svc := NewUnlockService(&fakePlaylistStore{}, events)
	playlist := testPlaylist(3, 2)

	require.NoError(t, svc.Play(owner, playlist, 0))
	require.Len(t, events.events, 1)
	assert.True(t, events.events[0].Rewatched)

	// 没有历史 completed 记录的视频不算重看
	require.NoError(t, svc.Play(owner, playlist, 1))
	require.Len(t, events.events, 2)
	assert.False(t, events.events[1].Rewatched)
}

func TestPauseWithoutActiveSession(t *testing.T) {
	events := &fakeEventStore{}
	svc := NewUnlockService(&fakePlaylistStore{}, events)
	playlist := testPlaylist(3, 1)

	duration, err := svc.Pause(owner, playlist, 0)
	require.NoError(t, err)
	assert.Zero(t, duration)
	assert.Empty(t, events.events)
}

func TestPauseRecordsDuration(t *testing.T) {
	events := &fakeEventStore{}
	svc := NewUnlockService(&fakePlaylistStore{}, events)
	playlist := testPlaylist(3, 1)

	require.NoError(t, svc.Play(owner, playlist, 0))
	duration, err := svc.Pause(owner, playlist, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, duration, 0.0)

	require.Len(t, events.events, 2)
	assert.Equal(t, model.EventPause, events.events[1].Kind)
	assert.False(t, events.events[1].Completed)
}

func TestReportProgressSeekSuppression(t *testing.T) {
	svc := NewUnlockService(&fakePlaylistStore{}, &fakeEventStore{})
	playlist := testPlaylist(3, 1)

	require.NoError(t, svc.Play(owner, playlist, 0))

	// 容忍范围内的推进被接受
	pos, ok := svc.ReportProgress(owner, playlist, 0, 0.8)
	assert.True(t, ok)
	assert.Equal(t, 0.8, pos)

	// 大幅前跳被拒绝并回退到最近合法位置
	pos, ok = svc.ReportProgress(owner, playlist, 0, 42.0)
	assert.False(t, ok)
	assert.Equal(t, 0.8, pos)

	// 回退（往回拖）总是允许
	pos, ok = svc.ReportProgress(owner, playlist, 0, 0.2)
	assert.True(t, ok)
	assert.Equal(t, 0.2, pos)
}

func TestSwitchLockedTargetRejected(t *testing.T) {
	svc := NewUnlockService(&fakePlaylistStore{}, &fakeEventStore{})
	playlist := testPlaylist(5, 2)

	err := svc.Switch(owner, playlist, 4)
	assert.ErrorIs(t, err, ErrVideoLocked)

	err = svc.Switch(owner, playlist, 1)
	assert.NoError(t, err)
}

func TestSwitchEmitsSkippedEvent(t *testing.T) {
	events := &fakeEventStore{}
	svc := NewUnlockService(&fakePlaylistStore{}, events)
	playlist := testPlaylist(5, 3)

	require.NoError(t, svc.Play(owner, playlist, 0))
	require.NoError(t, svc.Switch(owner, playlist, 2))

	// play 事件 + 切走时的 skipped 事件
	require.Len(t, events.events, 2)
	skipped := events.events[1]
	assert.Equal(t, model.EventPause, skipped.Kind)
	assert.True(t, skipped.Skipped)
	assert.Equal(t, playlist.Videos[0].VideoID, skipped.VideoID)

	// 切换后进度清零，大位置上报会被拒绝
	pos, ok := svc.ReportProgress(owner, playlist, 2, 30.0)
	assert.False(t, ok)
	assert.Zero(t, pos)
}

func TestSwitchIndexOutOfRange(t *testing.T) {
	svc := NewUnlockService(&fakePlaylistStore{}, &fakeEventStore{})
	playlist := testPlaylist(3, 3)

	assert.ErrorIs(t, svc.Switch(owner, playlist, 3), ErrIndexInvalid)
	assert.ErrorIs(t, svc.Switch(owner, playlist, -1), ErrIndexInvalid)
}
