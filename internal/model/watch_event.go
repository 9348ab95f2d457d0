package model

import (
	"time"
)

// 观看事件类型
const (
	EventPlay     = "play"     // 开始/恢复播放
	EventPause    = "pause"    // 暂停，携带本段观看时长
	EventEnd      = "end"      // 自然播完，completed=true
	EventDuration = "duration" // 通用时长采样
)

// WatchEvent 观看事件（只追加日志，写入后永不修改）
// VideoTitle / UserEmail 是写入时的去范式化快照：
// 历史统计必须反映当时的视频与用户身份，而不是之后编辑过的
type WatchEvent struct {
	ID            int       `json:"id" db:"id"`
	VideoID       int       `json:"video_id" db:"video_id" gorm:"index"`
	VideoTitle    string    `json:"video_title" db:"video_title"`
	UserID        int       `json:"user_id" db:"user_id" gorm:"index"`
	UserEmail     string    `json:"user_email" db:"user_email"`
	PlaylistID    *int      `json:"playlist_id" db:"playlist_id"`
	Kind          string    `json:"kind" db:"kind"`
	WatchDuration float64   `json:"watch_duration" db:"watch_duration"` // 秒，始终 >= 0
	Completed     bool      `json:"completed" db:"completed"`
	Skipped       bool      `json:"skipped" db:"skipped"`
	Rewatched     bool      `json:"rewatched" db:"rewatched"`
	WatchedAt     time.Time `json:"watched_at" db:"watched_at" gorm:"index"`
}
