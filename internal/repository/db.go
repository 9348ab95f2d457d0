package repository

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/user/vidgate/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化数据库连接
// 底层用 lib/pq 建立 *sql.DB 连接池，再交给 gorm 使用
func InitDB(databaseURL string) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("初始化 gorm 失败: %w", err)
	}

	// pgvector 扩展（相关视频推荐用）
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("创建 vector 扩展失败: %w", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Video{},
		&model.Playlist{},
		&model.WatchEvent{},
		&model.Feedback{},
		&model.Recommendation{},
	); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// Repositories 仓库集合
type Repositories struct {
	DB             *gorm.DB
	User           *UserRepository
	Video          *VideoRepository
	Playlist       *PlaylistRepository
	WatchEvent     *WatchEventRepository
	Feedback       *FeedbackRepository
	Recommendation *RecommendationRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:             db,
		User:           NewUserRepository(db),
		Video:          NewVideoRepository(db),
		Playlist:       NewPlaylistRepository(db),
		WatchEvent:     NewWatchEventRepository(db),
		Feedback:       NewFeedbackRepository(db),
		Recommendation: NewRecommendationRepository(db),
	}
}
