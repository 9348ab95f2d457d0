package router

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/user/vidgate/internal/handler"
	"github.com/user/vidgate/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 公开页面 ====================
	r.GET("/", h.Home)
	r.GET("/feedback", h.FeedbackPage)
	r.NoRoute(h.NotFound)

	// ==================== 认证页面 ====================
	auth := r.Group("/auth")
	{
		auth.GET("/login", h.LoginPage)
		auth.POST("/login", h.Login)
		auth.GET("/register", h.RegisterPage)
		auth.POST("/register", h.Register)
		auth.POST("/logout", h.Logout)
	}

	// ==================== 用户页面（需要登录）====================
	user := r.Group("")
	user.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		user.GET("/dashboard", h.Dashboard)
		user.GET("/playlists", h.MyPlaylists)
		user.GET("/playlist/:shareId", h.PlaylistPage)
	}

	// ==================== API ====================
	api := r.Group("/api")
	api.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		api.POST("/playlists", h.CreatePlaylist)
		api.POST("/playlists/:shareId/events", h.ReportWatchEvent)
		api.POST("/playlists/:shareId/progress", h.ReportProgress)
		api.POST("/playlists/:shareId/switch", h.SwitchVideo)
	}

	// 反馈允许未登录提交
	open := r.Group("/api")
	open.Use(middleware.OptionalAuth(h.Config.AppSecret))
	{
		open.POST("/feedback", h.SubmitFeedback)
		open.POST("/recommendations", h.SubmitRecommendation)
	}

	// ==================== 管理后台 ====================
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuth(h.Config.AppSecret))
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("", h.AdminDashboard)
		admin.GET("/videos", h.AdminVideos)
		admin.GET("/upload", h.AdminUpload)
		admin.POST("/videos", h.CreateVideo)
		admin.POST("/videos/meta", h.FetchVideoMeta)
		admin.DELETE("/videos/:id", h.DeleteVideo)
		admin.GET("/videos/:id/related", h.RelatedVideos)

		admin.GET("/analytics", h.AdminAnalyticsPage)
		admin.GET("/api/analytics", h.AnalyticsJSON)
		admin.GET("/events", h.AdminEvents)
		admin.GET("/reports", h.AdminReports)
		admin.GET("/reports/export", h.ExportReport)
		admin.GET("/feedback", h.AdminFeedback)
	}
}

// LoadTemplates 使用 multitemplate 加载模板，解决模板继承问题
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	// 获取布局和局部模板
	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	partials, err := filepath.Glob(templatesDir + "/partials/*.html")
	if err != nil {
		panic(err)
	}

	// 组装模板文件列表
	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, partials...)
		files = append(files, view)
		return files
	}

	// 模板函数
	funcMap := template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"default": func(defaultValue, value interface{}) interface{} {
			switch v := value.(type) {
			case string:
				if v == "" {
					return defaultValue
				}
			case int:
				if v == 0 {
					return defaultValue
				}
			case nil:
				return defaultValue
			}
			return value
		},
	}

	// 注册所有页面模板
	pages := []string{
		"home", "feedback", "404",
		"login", "register",
		"dashboard", "playlists", "playlist",
		"admin_dashboard", "admin_videos", "admin_upload",
		"admin_analytics", "admin_events", "admin_reports", "admin_feedback",
	}

	for _, page := range pages {
		viewPath := templatesDir + "/pages/" + page + ".html"
		r.AddFromFilesFuncs(page+".html", funcMap, assemble(viewPath)...)
	}

	return r
}
