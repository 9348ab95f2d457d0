package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/user/vidgate/internal/config"
	"github.com/user/vidgate/internal/middleware"
	"github.com/user/vidgate/internal/model"
	"github.com/user/vidgate/internal/repository"
	"github.com/user/vidgate/internal/service"
	"github.com/user/vidgate/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Repos     *repository.Repositories
	Config    *config.Config
	Unlock    *service.UnlockService
	Analytics *service.AnalyticsService
	Playlists *service.PlaylistService
	Related   *service.RelatedService
	Meta      *service.MetaFetcher

	catalogCache *utils.TTLCache[[]*model.Video]
	validate     *validator.Validate
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	email := service.NewEmailService(cfg)
	embeddings := utils.NewEmbeddingClient(cfg.EmbeddingHost, cfg.EmbeddingModel)

	return &Handler{
		Repos:     repos,
		Config:    cfg,
		Unlock:    service.NewUnlockService(repos.Playlist, repos.WatchEvent),
		Analytics: service.NewAnalyticsService(repos.Video, repos.User, repos.WatchEvent),
		Playlists: service.NewPlaylistService(repos.Video, repos.Playlist, email, cfg.SiteUrl),
		Related:   service.NewRelatedService(repos.Video, embeddings),
		Meta:      service.NewMetaFetcher(10 * time.Second),

		catalogCache: utils.NewTTLCache[[]*model.Video](16, 2*time.Minute),
		validate:     validator.New(),
	}
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	// 基础数据
	res := gin.H{
		"SiteName": h.Config.SiteName,
		"SiteUrl":  h.Config.SiteUrl,
		"Path":     c.Request.URL.Path,
	}

	// 注入用户信息
	session := sessions.Default(c)
	if userinfo := session.Get("userinfo"); userinfo != nil {
		if su, ok := userinfo.(model.SessionUser); ok {
			res["UserInfo"] = su
		}
	}

	// 合并传入的数据
	for k, v := range data {
		res[k] = v
	}

	return res
}

// sessionUser 当前登录用户（JWT 上下文优先，回退 Session）
func (h *Handler) sessionUser(c *gin.Context) (model.SessionUser, bool) {
	if userID := middleware.GetUserID(c); userID > 0 {
		return model.SessionUser{
			ID:    userID,
			Email: middleware.GetUserEmail(c),
		}, true
	}

	session := sessions.Default(c)
	if userinfo := session.Get("userinfo"); userinfo != nil {
		if su, ok := userinfo.(model.SessionUser); ok {
			return su, true
		}
	}
	return model.SessionUser{}, false
}

// listCatalog 目录列表（带短缓存）
func (h *Handler) listCatalog() ([]*model.Video, error) {
	if videos, ok := h.catalogCache.Get("catalog:all"); ok {
		return videos, nil
	}
	videos, err := h.Repos.Video.ListAll()
	if err != nil {
		return nil, err
	}
	h.catalogCache.Set("catalog:all", videos)
	return videos, nil
}

// ==================== 公开页面 ====================

// Home 首页：展示视频目录
func (h *Handler) Home(c *gin.Context) {
	videos, _ := h.listCatalog()

	c.HTML(http.StatusOK, "home.html", h.RenderData(c, gin.H{
		"Title":  h.Config.SiteName + " - 视频门户",
		"Videos": videos,
	}))
}

// FeedbackPage 反馈页面
func (h *Handler) FeedbackPage(c *gin.Context) {
	c.HTML(http.StatusOK, "feedback.html", h.RenderData(c, gin.H{
		"Title": "反馈建议 - " + h.Config.SiteName,
	}))
}

// NotFound 404 页面
func (h *Handler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
		"Title": "页面未找到 - " + h.Config.SiteName,
	}))
}

// ==================== 用户页面（需要登录）====================

// Dashboard 选片页：勾选目录视频创建播放列表
func (h *Handler) Dashboard(c *gin.Context) {
	videos, err := h.listCatalog()
	if err != nil {
		c.HTML(http.StatusOK, "dashboard.html", h.RenderData(c, gin.H{
			"Title": "创建播放列表 - " + h.Config.SiteName,
			"Error": "加载视频目录失败，请稍后重试",
		}))
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", h.RenderData(c, gin.H{
		"Title":  "创建播放列表 - " + h.Config.SiteName,
		"Videos": videos,
	}))
}

// MyPlaylists 我的播放列表
func (h *Handler) MyPlaylists(c *gin.Context) {
	userID := middleware.GetUserID(c)
	playlists, err := h.Repos.Playlist.ListByUser(userID)
	if err != nil {
		c.HTML(http.StatusOK, "playlists.html", h.RenderData(c, gin.H{
			"Title": "我的播放列表 - " + h.Config.SiteName,
			"Error": "加载播放列表失败，请稍后重试",
		}))
		return
	}

	c.HTML(http.StatusOK, "playlists.html", h.RenderData(c, gin.H{
		"Title":     "我的播放列表 - " + h.Config.SiteName,
		"Playlists": playlists,
	}))
}

// PlaylistPage 播放页：顺序解锁的播放器
func (h *Handler) PlaylistPage(c *gin.Context) {
	shareID := c.Param("shareId")

	playlist, err := h.Repos.Playlist.FindByShareID(shareID)
	if err != nil || playlist == nil {
		// 找不到播放列表对当前视图是终态，回到安全页面
		c.Redirect(http.StatusFound, "/playlists")
		return
	}

	if playlist.UserID != middleware.GetUserID(c) {
		c.Redirect(http.StatusFound, "/playlists")
		return
	}

	c.HTML(http.StatusOK, "playlist.html", h.RenderData(c, gin.H{
		"Title":    "正在观看 - " + h.Config.SiteName,
		"Playlist": playlist,
	}))
}
