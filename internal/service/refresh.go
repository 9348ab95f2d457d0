package service

import (
	"log"
	"time"

	"github.com/user/vidgate/internal/utils"
)

// RefreshService 定时任务：预热分析缓存、清理过期播放会话
type RefreshService struct {
	analytics *AnalyticsService
	unlock    *UnlockService
}

// NewRefreshService 创建定时刷新服务
func NewRefreshService(analytics *AnalyticsService, unlock *UnlockService) *RefreshService {
	return &RefreshService{analytics: analytics, unlock: unlock}
}

// Start 启动定时刷新
func (s *RefreshService) Start() {
	ticker := time.NewTicker(10 * time.Minute)

	// 启动时先跑一次
	go s.run()

	go func() {
		for range ticker.C {
			s.run()
		}
	}()
}

func (s *RefreshService) run() {
	if _, err := s.analytics.Refresh(); err != nil {
		log.Printf("[RefreshService] 预热分析缓存失败: %v", err)
	}

	s.unlock.SweepSessions()
	utils.CacheSweep()
}
