package model

import (
	"time"
)

// PlaylistVideo 播放列表内嵌的视频快照
// 创建播放列表时从目录拷贝，之后目录再编辑也不影响已有列表
type PlaylistVideo struct {
	VideoID      int      `json:"video_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"`
	Duration     string   `json:"duration,omitempty"`
	VideoURL     string   `json:"video_url"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
	PublicID     string   `json:"public_id,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// Playlist 用户播放列表
// Videos 的插入顺序即播放顺序，创建后不可变
// Unlocked 是顺序解锁游标：下标 i 的视频可播放当且仅当 i < Unlocked
type Playlist struct {
	ID        int             `json:"id" db:"id"`
	ShareID   string          `json:"share_id" db:"share_id" gorm:"unique"` // 对外暴露的不透明 ID（邮件链接用）
	UserID    int             `json:"user_id" db:"user_id" gorm:"index"`
	UserEmail string          `json:"user_email" db:"user_email"`
	Videos    []PlaylistVideo `json:"videos" db:"videos" gorm:"serializer:json"`
	Unlocked  int             `json:"unlocked" db:"unlocked"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Len 列表长度
func (p *Playlist) Len() int {
	return len(p.Videos)
}

// VideoAt 按下标取快照（越界返回 nil）
func (p *Playlist) VideoAt(index int) *PlaylistVideo {
	if index < 0 || index >= len(p.Videos) {
		return nil
	}
	return &p.Videos[index]
}
