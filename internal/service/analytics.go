package service

import (
	"time"

	"github.com/user/vidgate/internal/model"
	"github.com/user/vidgate/internal/utils"
	"golang.org/x/sync/errgroup"
)

const analyticsCacheKey = "analytics:summary"

// VideoLister 聚合需要的视频目录读取能力
type VideoLister interface {
	ListAll() ([]*model.Video, error)
}

// UserLister 用户目录读取能力
type UserLister interface {
	ListAll() ([]*model.User, error)
}

// EventLister 观看事件日志读取能力
type EventLister interface {
	ListAll() ([]*model.WatchEvent, error)
}

// AnalyticsService 观看事件聚合
// 按需计算：扫描整个事件日志折叠出统计结果，不做增量维护
type AnalyticsService struct {
	videos VideoLister
	users  UserLister
	events EventLister
}

// NewAnalyticsService 创建聚合服务
func NewAnalyticsService(videos VideoLister, users UserLister, events EventLister) *AnalyticsService {
	return &AnalyticsService{videos: videos, users: users, events: events}
}

// Compute 计算完整分析视图，结果缓存 5 分钟
// 任一数据源读取失败则整体失败，不渲染部分结果
func (s *AnalyticsService) Compute() (*model.AnalyticsData, error) {
	if cached, ok := utils.CacheGet(analyticsCacheKey); ok {
		return cached.(*model.AnalyticsData), nil
	}
	return s.Refresh()
}

// Refresh 跳过缓存强制重算（定时预热用）
func (s *AnalyticsService) Refresh() (*model.AnalyticsData, error) {
	var (
		videos []*model.Video
		users  []*model.User
		events []*model.WatchEvent
	)

	// 三个数据源互相独立，并发拉取
	var g errgroup.Group
	g.Go(func() (err error) {
		videos, err = s.videos.ListAll()
		return err
	})
	g.Go(func() (err error) {
		users, err = s.users.ListAll()
		return err
	})
	g.Go(func() (err error) {
		events, err = s.events.ListAll()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data := Aggregate(videos, users, events)
	utils.CacheSet(analyticsCacheKey, data, 5*time.Minute)
	return data, nil
}

// orOne 比率/均值的分母下限为 1：零事件实体得到 0 而不是 NaN
func orOne(n int) float64 {
	if n == 0 {
		return 1
	}
	return float64(n)
}

// Aggregate 把事件日志折叠成统计视图，纯函数
// 视图按目录遍历：没有任何事件的视频/用户也会出现在结果中（全 0）
func Aggregate(videos []*model.Video, users []*model.User, events []*model.WatchEvent) *model.AnalyticsData {
	byVideo := make(map[int][]*model.WatchEvent)
	byUser := make(map[int][]*model.WatchEvent)
	for _, e := range events {
		byVideo[e.VideoID] = append(byVideo[e.VideoID], e)
		byUser[e.UserID] = append(byUser[e.UserID], e)
	}

	videoStats := make([]model.VideoAnalytics, 0, len(videos))
	for _, v := range videos {
		ve := byVideo[v.ID]
		total := len(ve)

		viewers := make(map[int]struct{}, total)
		var watchTime float64
		var completed, skipped, rewatched int
		for _, e := range ve {
			viewers[e.UserID] = struct{}{}
			watchTime += e.WatchDuration
			if e.Completed {
				completed++
			}
			if e.Skipped {
				skipped++
			}
			if e.Rewatched {
				rewatched++
			}
		}

		videoStats = append(videoStats, model.VideoAnalytics{
			VideoID:          v.ID,
			Title:            v.DisplayTitle(),
			TotalViews:       total,
			UniqueViewers:    len(viewers),
			TotalWatchTime:   watchTime,
			AverageWatchTime: watchTime / orOne(total),
			CompletionRate:   float64(completed) / orOne(total) * 100,
			SkipRate:         float64(skipped) / orOne(total) * 100,
			RewatchRate:      float64(rewatched) / orOne(total) * 100,
		})
	}

	userStats := make([]model.UserEngagement, 0, len(users))
	var engagementSum float64
	for _, u := range users {
		ue := byUser[u.ID]
		total := len(ue)

		var watchTime float64
		var completed int
		var lastActive time.Time
		for _, e := range ue {
			watchTime += e.WatchDuration
			if e.Completed {
				completed++
			}
			if e.WatchedAt.After(lastActive) {
				lastActive = e.WatchedAt
			}
		}
		if lastActive.IsZero() {
			lastActive = time.Now()
		}

		completionRate := float64(completed) / orOne(total) * 100
		engagementSum += completionRate

		userStats = append(userStats, model.UserEngagement{
			UserID:             u.ID,
			Email:              u.Email,
			TotalVideosWatched: total,
			TotalWatchTime:     watchTime,
			AverageWatchTime:   watchTime / orOne(total),
			CompletionRate:     completionRate,
			LastActive:         lastActive,
		})
	}

	return &model.AnalyticsData{
		Videos:            videoStats,
		Users:             userStats,
		TotalUsers:        len(users),
		TotalVideos:       len(videos),
		TotalViews:        len(events),
		AverageEngagement: engagementSum / orOne(len(users)),
	}
}
