package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/vidgate/internal/middleware"
	"github.com/user/vidgate/internal/model"
	"github.com/user/vidgate/internal/service"
	"github.com/user/vidgate/internal/utils"
)

// CreatePlaylistRequest 创建播放列表请求
type CreatePlaylistRequest struct {
	VideoIDs []int `json:"video_ids" binding:"required"` // 勾选顺序即播放顺序
}

// CreatePlaylist 创建播放列表
func (h *Handler) CreatePlaylist(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		utils.Unauthorized(c, "")
		return
	}

	var req CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误")
		return
	}

	playlist, emailSent, err := h.Playlists.Create(user, req.VideoIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptySelection):
			utils.BadRequest(c, "请至少选择一个视频")
		case errors.Is(err, service.ErrVideosMissing):
			utils.BadRequest(c, "所选视频不存在，请刷新后重试")
		default:
			utils.InternalServerError(c, "创建播放列表失败，请稍后重试")
		}
		return
	}

	utils.Success(c, gin.H{
		"share_id":   playlist.ShareID,
		"url":        h.Playlists.ShareURL(playlist),
		"unlocked":   playlist.Unlocked,
		"email_sent": emailSent,
	})
}

// WatchEventRequest 播放器生命周期事件上报
type WatchEventRequest struct {
	Kind  string `json:"kind" binding:"required"` // play/pause/end
	Index int    `json:"index"`                   // 播放列表内下标
}

// ReportWatchEvent 处理 play/pause/end 事件
func (h *Handler) ReportWatchEvent(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		utils.Unauthorized(c, "")
		return
	}

	var req WatchEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误")
		return
	}

	playlist, err := h.loadOwnPlaylist(c, user)
	if err != nil {
		return
	}

	switch req.Kind {
	case model.EventPlay:
		if err := h.Unlock.Play(user, playlist, req.Index); err != nil {
			h.unlockError(c, err)
			return
		}
		utils.Success(c, gin.H{"unlocked": playlist.Unlocked})

	case model.EventPause:
		duration, err := h.Unlock.Pause(user, playlist, req.Index)
		if err != nil {
			h.unlockError(c, err)
			return
		}
		utils.Success(c, gin.H{"watch_duration": duration})

	case model.EventEnd:
		result, err := h.Unlock.End(user, playlist, req.Index)
		if err != nil {
			h.unlockError(c, err)
			return
		}
		utils.SuccessWithMessage(c, "已解锁下一个视频", result)

	default:
		utils.BadRequest(c, "未知的事件类型")
	}
}

// ProgressRequest 播放位置上报
type ProgressRequest struct {
	Index    int     `json:"index"`
	Position float64 `json:"position"`
}

// ReportProgress 播放位置上报：前跳被静默纠正而不是报错
func (h *Handler) ReportProgress(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		utils.Unauthorized(c, "")
		return
	}

	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误")
		return
	}

	playlist, err := h.loadOwnPlaylist(c, user)
	if err != nil {
		return
	}

	position, accepted := h.Unlock.ReportProgress(user, playlist, req.Index, req.Position)
	utils.Success(c, gin.H{
		"position": position,
		"accepted": accepted,
	})
}

// SwitchRequest 切换当前播放视频
type SwitchRequest struct {
	Index int `json:"index"`
}

// SwitchVideo 切换当前播放视频（未解锁的目标直接拒绝）
func (h *Handler) SwitchVideo(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		utils.Unauthorized(c, "")
		return
	}

	var req SwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误")
		return
	}

	playlist, err := h.loadOwnPlaylist(c, user)
	if err != nil {
		return
	}

	if err := h.Unlock.Switch(user, playlist, req.Index); err != nil {
		h.unlockError(c, err)
		return
	}
	utils.Success(c, gin.H{"index": req.Index})
}

// SubmitFeedback 提交反馈
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		utils.BadRequest(c, "反馈内容不能为空")
		return
	}

	userID := middleware.GetUserIDPtr(c)
	email := middleware.GetUserEmail(c)
	if err := h.Repos.Feedback.Create(userID, email, strings.TrimSpace(req.Content)); err != nil {
		utils.InternalServerError(c, "提交失败，请稍后重试")
		return
	}
	utils.SuccessWithMessage(c, "感谢你的反馈", nil)
}

// SubmitRecommendation 提交选题推荐
func (h *Handler) SubmitRecommendation(c *gin.Context) {
	var req struct {
		Title  string `json:"title" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		utils.BadRequest(c, "推荐标题不能为空")
		return
	}

	userID := middleware.GetUserIDPtr(c)
	email := middleware.GetUserEmail(c)
	if err := h.Repos.Recommendation.Create(userID, email, strings.TrimSpace(req.Title), req.Reason); err != nil {
		utils.InternalServerError(c, "提交失败，请稍后重试")
		return
	}
	utils.SuccessWithMessage(c, "感谢你的推荐", nil)
}

// loadOwnPlaylist 按 shareId 加载当前用户自己的播放列表
// 出错时已写好响应，调用方直接 return
func (h *Handler) loadOwnPlaylist(c *gin.Context, user model.SessionUser) (*model.Playlist, error) {
	shareID := c.Param("shareId")
	playlist, err := h.Repos.Playlist.FindByShareID(shareID)
	if err != nil {
		utils.InternalServerError(c, "加载播放列表失败")
		return nil, err
	}
	if playlist == nil {
		utils.NotFound(c, "播放列表不存在")
		return nil, service.ErrIndexInvalid
	}
	if playlist.UserID != user.ID {
		utils.Forbidden(c, "")
		return nil, service.ErrNotOwner
	}
	return playlist, nil
}

// unlockError 把解锁状态机的业务错误映射为响应
func (h *Handler) unlockError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVideoLocked):
		utils.Forbidden(c, "视频尚未解锁")
	case errors.Is(err, service.ErrIndexInvalid):
		utils.BadRequest(c, "视频下标越界")
	case errors.Is(err, service.ErrNotOwner):
		utils.Forbidden(c, "")
	default:
		utils.InternalServerError(c, "解锁下一个视频失败，请重试")
	}
}
