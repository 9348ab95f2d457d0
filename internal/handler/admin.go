package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/vidgate/internal/model"
	"github.com/user/vidgate/internal/utils"
)

// AdminDashboard 管理后台首页
func (h *Handler) AdminDashboard(c *gin.Context) {
	userCount, _ := h.Repos.User.Count()
	videoCount, _ := h.Repos.Video.Count()
	playlistCount, _ := h.Repos.Playlist.Count()
	eventCount, _ := h.Repos.WatchEvent.Count()

	c.HTML(http.StatusOK, "admin_dashboard.html", h.RenderData(c, gin.H{
		"Title":         "管理后台 - " + h.Config.SiteName,
		"UserCount":     userCount,
		"VideoCount":    videoCount,
		"PlaylistCount": playlistCount,
		"EventCount":    eventCount,
	}))
}

// AdminVideos 视频管理页
func (h *Handler) AdminVideos(c *gin.Context) {
	videos, err := h.Repos.Video.ListAll()
	if err != nil {
		c.HTML(http.StatusOK, "admin_videos.html", h.RenderData(c, gin.H{
			"Title": "视频管理 - " + h.Config.SiteName,
			"Error": "加载视频列表失败",
		}))
		return
	}

	c.HTML(http.StatusOK, "admin_videos.html", h.RenderData(c, gin.H{
		"Title":  "视频管理 - " + h.Config.SiteName,
		"Videos": videos,
	}))
}

// AdminUpload 上传页
func (h *Handler) AdminUpload(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_upload.html", h.RenderData(c, gin.H{
		"Title":     "上传视频 - " + h.Config.SiteName,
		"CloudName": h.Config.CloudinaryCloudName,
	}))
}

// CreateVideoRequest 登记视频请求
// 媒体文件由浏览器直传 Cloudinary，这里只登记元数据和定位符
type CreateVideoRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Duration    string   `json:"duration"`
	PublicID    string   `json:"public_id"`
	VideoURL    string   `json:"video_url"`
	Tags        []string `json:"tags"`
}

// CreateVideo 登记新视频
func (h *Handler) CreateVideo(c *gin.Context) {
	var req CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		utils.BadRequest(c, "标题不能为空且不超过200字")
		return
	}
	if req.PublicID == "" && req.VideoURL == "" {
		utils.BadRequest(c, "需要提供 Cloudinary public_id 或视频 URL")
		return
	}

	video := &model.Video{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Duration:    req.Duration,
		PublicID:    req.PublicID,
		VideoURL:    req.VideoURL,
		Tags:        req.Tags,
		CreatedAt:   time.Now(),
	}

	// 从 public_id 推导 Cloudinary 播放/封面地址
	if video.PublicID != "" && h.Config.CloudinaryCloudName != "" {
		base := fmt.Sprintf("https://res.cloudinary.com/%s/video/upload/%s", h.Config.CloudinaryCloudName, video.PublicID)
		if video.VideoURL == "" {
			video.VideoURL = base + ".mp4"
		}
		if video.ThumbnailURL == "" {
			video.ThumbnailURL = base + ".jpg"
		}
	}

	if err := h.Repos.Video.Create(video); err != nil {
		utils.InternalServerError(c, "保存视频失败")
		return
	}

	h.catalogCache.Delete("catalog:all")

	// 向量化在后台进行，不阻塞登记流程
	go h.Related.EnsureEmbedding(video)

	utils.SuccessWithMessage(c, "视频已登记", gin.H{"id": video.ID})
}

// FetchVideoMeta 按 URL 抓取页面元数据做表单预填
func (h *Handler) FetchVideoMeta(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "请输入合法的 URL")
		return
	}

	meta, err := h.Meta.Fetch(req.URL)
	if err != nil {
		utils.InternalServerError(c, "抓取页面元数据失败")
		return
	}
	utils.Success(c, meta)
}

// DeleteVideo 删除目录视频（已有播放列表里的快照不受影响）
func (h *Handler) DeleteVideo(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "参数错误")
		return
	}

	if err := h.Repos.Video.Delete(id); err != nil {
		utils.InternalServerError(c, "删除失败")
		return
	}

	h.catalogCache.Delete("catalog:all")
	utils.SuccessWithMessage(c, "已删除", nil)
}

// RelatedVideos 相关视频推荐
func (h *Handler) RelatedVideos(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "参数错误")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
	videos, err := h.Related.FindRelated(id, limit)
	if err != nil {
		utils.InternalServerError(c, "查询相关视频失败")
		return
	}
	utils.Success(c, videos)
}

// AdminAnalyticsPage 分析页
func (h *Handler) AdminAnalyticsPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_analytics.html", h.RenderData(c, gin.H{
		"Title": "数据分析 - " + h.Config.SiteName,
	}))
}

// AnalyticsJSON 聚合分析数据
// 全有或全无：任一数据源失败时不返回部分结果
func (h *Handler) AnalyticsJSON(c *gin.Context) {
	data, err := h.Analytics.Compute()
	if err != nil {
		utils.InternalServerError(c, "计算分析数据失败")
		return
	}
	utils.Success(c, data)
}

// AdminEvents 观看事件明细页（只追加日志，按时间倒序展示）
func (h *Handler) AdminEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))
	events, err := h.Repos.WatchEvent.ListRecent(limit)
	if err != nil {
		c.HTML(http.StatusOK, "admin_events.html", h.RenderData(c, gin.H{
			"Title": "观看明细 - " + h.Config.SiteName,
			"Error": "加载观看事件失败",
		}))
		return
	}

	c.HTML(http.StatusOK, "admin_events.html", h.RenderData(c, gin.H{
		"Title":  "观看明细 - " + h.Config.SiteName,
		"Events": events,
	}))
}

// AdminReports 报表页
func (h *Handler) AdminReports(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_reports.html", h.RenderData(c, gin.H{
		"Title": "报表导出 - " + h.Config.SiteName,
	}))
}

// ExportReport 导出视频报表 CSV
func (h *Handler) ExportReport(c *gin.Context) {
	data, err := h.Analytics.Compute()
	if err != nil {
		utils.InternalServerError(c, "计算分析数据失败")
		return
	}

	videos, err := h.Repos.Video.ListAll()
	if err != nil {
		utils.InternalServerError(c, "加载视频目录失败")
		return
	}
	byID := make(map[int]*model.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}

	filename := fmt.Sprintf("video-report-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	w := csv.NewWriter(c.Writer)
	w.Write([]string{"Title", "Category", "Views", "Watch Time", "Engagement Rate", "Created At"})

	category := c.Query("category")
	for _, va := range data.Videos {
		v := byID[va.VideoID]
		if v == nil {
			continue
		}
		if category != "" && v.DisplayCategory() != category {
			continue
		}
		w.Write([]string{
			va.Title,
			v.DisplayCategory(),
			strconv.Itoa(va.TotalViews),
			fmt.Sprintf("%.1fh", va.TotalWatchTime/3600),
			fmt.Sprintf("%.1f%%", va.CompletionRate),
			v.CreatedAt.Format("2006-01-02"),
		})
	}
	w.Flush()
}

// AdminFeedback 反馈与推荐列表页
func (h *Handler) AdminFeedback(c *gin.Context) {
	feedbacks, _ := h.Repos.Feedback.ListAll(100)
	recs, _ := h.Repos.Recommendation.ListAll(100)

	c.HTML(http.StatusOK, "admin_feedback.html", h.RenderData(c, gin.H{
		"Title":           "用户反馈 - " + h.Config.SiteName,
		"Feedbacks":       feedbacks,
		"Recommendations": recs,
	}))
}
