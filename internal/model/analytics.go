package model

import (
	"time"
)

// VideoAnalytics 单个视频的聚合统计（读时计算，不落库）
type VideoAnalytics struct {
	VideoID          int     `json:"video_id"`
	Title            string  `json:"title"`
	TotalViews       int     `json:"total_views"`
	UniqueViewers    int     `json:"unique_viewers"`
	TotalWatchTime   float64 `json:"total_watch_time"`
	AverageWatchTime float64 `json:"average_watch_time"`
	CompletionRate   float64 `json:"completion_rate"`
	SkipRate         float64 `json:"skip_rate"`
	RewatchRate      float64 `json:"rewatch_rate"`
}

// UserEngagement 单个用户的参与度统计
type UserEngagement struct {
	UserID             int       `json:"user_id"`
	Email              string    `json:"email"`
	TotalVideosWatched int       `json:"total_videos_watched"`
	TotalWatchTime     float64   `json:"total_watch_time"`
	AverageWatchTime   float64   `json:"average_watch_time"`
	CompletionRate     float64   `json:"completion_rate"`
	LastActive         time.Time `json:"last_active"`
}

// AnalyticsData 管理后台的完整分析视图
type AnalyticsData struct {
	Videos            []VideoAnalytics `json:"videos"`
	Users             []UserEngagement `json:"users"`
	TotalUsers        int              `json:"total_users"`
	TotalVideos       int              `json:"total_videos"`
	TotalViews        int              `json:"total_views"`
	AverageEngagement float64          `json:"average_engagement"`
}
