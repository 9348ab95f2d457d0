package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/vidgate/internal/model"
	"github.com/user/vidgate/internal/utils"
)

func video(id int, title string) *model.Video {
	return &model.Video{ID: id, Title: title}
}

func account(id int, email string) *model.User {
	return &model.User{ID: id, Email: email}
}

func event(videoID, userID int, duration float64, completed bool) *model.WatchEvent {
	return &model.WatchEvent{
		VideoID:       videoID,
		UserID:        userID,
		Kind:          model.EventEnd,
		WatchDuration: duration,
		Completed:     completed,
		WatchedAt:     time.Now(),
	}
}

func TestAggregateEmptyLog(t *testing.T) {
	videos := []*model.Video{video(1, "入门"), video(2, "进阶")}
	users := []*model.User{account(1, "a@example.com")}

	data := Aggregate(videos, users, nil)

	// 没有事件的视频和用户也出现在结果里，统计全 0
	require.Len(t, data.Videos, 2)
	require.Len(t, data.Users, 1)

	for _, v := range data.Videos {
		assert.Zero(t, v.TotalViews)
		assert.Zero(t, v.UniqueViewers)
		assert.Zero(t, v.TotalWatchTime)
		assert.Zero(t, v.AverageWatchTime)
		assert.Zero(t, v.CompletionRate)
		assert.Zero(t, v.SkipRate)
		assert.Zero(t, v.RewatchRate)
	}

	u := data.Users[0]
	assert.Zero(t, u.TotalVideosWatched)
	assert.Zero(t, u.CompletionRate)
	assert.False(t, u.LastActive.IsZero())

	assert.Zero(t, data.TotalViews)
	assert.Zero(t, data.AverageEngagement)
}

func TestAggregateVideoStats(t *testing.T) {
	videos := []*model.Video{video(1, "入门")}
	users := []*model.User{account(1, "a@example.com"), account(2, "b@example.com")}
	events := []*model.WatchEvent{
		event(1, 1, 10, true),
		event(1, 1, 20, false),
		event(1, 2, 0, true),
	}

	data := Aggregate(videos, users, events)
	require.Len(t, data.Videos, 1)

	v := data.Videos[0]
	assert.Equal(t, 3, v.TotalViews)
	assert.Equal(t, 2, v.UniqueViewers) // 用户 1 看了两次只算一个观众
	assert.Equal(t, 30.0, v.TotalWatchTime)
	assert.Equal(t, 10.0, v.AverageWatchTime)
	assert.InDelta(t, 66.67, v.CompletionRate, 0.01)

	assert.Equal(t, 3, data.TotalViews)
}

func TestAggregateSkipAndRewatchRates(t *testing.T) {
	videos := []*model.Video{video(1, "入门")}
	users := []*model.User{account(1, "a@example.com")}

	skipped := event(1, 1, 5, false)
	skipped.Kind = model.EventPause
	skipped.Skipped = true

	rewatched := event(1, 1, 15, true)
	rewatched.Rewatched = true

	data := Aggregate(videos, users, []*model.WatchEvent{
		event(1, 1, 10, true),
		skipped,
		rewatched,
		event(1, 1, 8, false),
	})

	v := data.Videos[0]
	assert.Equal(t, 4, v.TotalViews)
	assert.InDelta(t, 25.0, v.SkipRate, 0.01)
	assert.InDelta(t, 25.0, v.RewatchRate, 0.01)
}

func TestAggregateUserEngagement(t *testing.T) {
	videos := []*model.Video{video(1, "入门"), video(2, "进阶")}
	users := []*model.User{account(1, "a@example.com"), account(2, "b@example.com")}

	older := event(1, 1, 10, true)
	older.WatchedAt = time.Now().Add(-48 * time.Hour)
	newer := event(2, 1, 30, false)
	newer.WatchedAt = time.Now().Add(-time.Hour)

	data := Aggregate(videos, users, []*model.WatchEvent{older, newer})
	require.Len(t, data.Users, 2)

	u1 := data.Users[0]
	assert.Equal(t, 2, u1.TotalVideosWatched)
	assert.Equal(t, 40.0, u1.TotalWatchTime)
	assert.Equal(t, 20.0, u1.AverageWatchTime)
	assert.InDelta(t, 50.0, u1.CompletionRate, 0.01)
	assert.WithinDuration(t, newer.WatchedAt, u1.LastActive, time.Second)

	// 平均参与度 = 各用户完成率的均值（用户 2 为 0）
	assert.InDelta(t, 25.0, data.AverageEngagement, 0.01)
}

func TestAggregateDeterministic(t *testing.T) {
	videos := []*model.Video{video(1, "入门")}
	users := []*model.User{account(1, "a@example.com")}
	events := []*model.WatchEvent{event(1, 1, 10, true), event(1, 1, 20, false)}

	first := Aggregate(videos, users, events)
	second := Aggregate(videos, users, events)
	assert.Equal(t, first.Videos, second.Videos)
	assert.Equal(t, first.TotalViews, second.TotalViews)
}

type fakeVideoLister struct {
	videos []*model.Video
	err    error
}

func (f *fakeVideoLister) ListAll() ([]*model.Video, error) { return f.videos, f.err }

type fakeUserLister struct {
	users []*model.User
	err   error
}

func (f *fakeUserLister) ListAll() ([]*model.User, error) { return f.users, f.err }

type fakeEventLister struct {
	events []*model.WatchEvent
	err    error
}

func (f *fakeEventLister) ListAll() ([]*model.WatchEvent, error) { return f.events, f.err }

func TestRefreshAllOrNothing(t *testing.T) {
	utils.InitCache()

	svc := NewAnalyticsService(
		&fakeVideoLister{videos: []*model.Video{video(1, "入门")}},
		&fakeUserLister{err: errors.New("数据库不可用")},
		&fakeEventLister{},
	)

	// 任一数据源失败时整体失败，不返回部分结果
	data, err := svc.Refresh()
	assert.Error(t, err)
	assert.Nil(t, data)
}

func TestComputeUsesCache(t *testing.T) {
	utils.InitCache()

	events := &fakeEventLister{events: []*model.WatchEvent{event(1, 1, 10, true)}}
	svc := NewAnalyticsService(
		&fakeVideoLister{videos: []*model.Video{video(1, "入门")}},
		&fakeUserLister{users: []*model.User{account(1, "a@example.com")}},
		events,
	)

	first, err := svc.Compute()
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalViews)

	// 事件源挂掉也能命中缓存
	events.err = errors.New("数据库不可用")
	second, err := svc.Compute()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
