package controller

import (
	"errors"
	"strconv"

	"placement_prep_backend/internal/service"
	"placement_prep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
	Hub                 *service.NotificationHub
}

func NewNotificationController(notificationService *service.NotificationService, hub *service.NotificationHub) *NotificationController {
	return &NotificationController{
		NotificationService: notificationService,
		Hub:                 hub,
	}
}

// @Summary 获取通知列表
// @Description 分页获取通知，group=true 时按今天/昨天/本周/更早分组
// @Tags 通知
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param group query bool false "按新旧分组"
// @Param unread query bool false "只看未读"
// @Param limit query int false "返回数量" default(20)
// @Param offset query int false "偏移量" default(0)
// @Success 200 {object} util.Response
// @Router /api/notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	unreadOnly := ctx.Query("unread") == "true"
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	if ctx.Query("group") == "true" {
		grouped, err := c.NotificationService.ListGrouped(user.UserID, unreadOnly, limit, offset)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, grouped)
		return
	}

	page, err := c.NotificationService.List(user.UserID, unreadOnly, limit, offset)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, page)
}

// @Summary 未读数
// @Tags 通知
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/notifications/unread-count [get]
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	count, err := c.NotificationService.UnreadCount(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"unreadCount": count})
}

// @Summary 标记通知已读
// @Description 幂等操作，重复标记返回成功；已读位只进不退
// @Tags 通知
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "通知ID"
// @Success 200 {object} util.Response
// @Router /api/notifications/{id}/read [patch]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	// 可选请求体上报客户端本地已读位，缺省视为标记已读
	incoming := true
	var req struct {
		IsRead *bool `json:"isRead"`
	}
	if err := ctx.ShouldBindJSON(&req); err == nil && req.IsRead != nil {
		incoming = *req.IsRead
	}

	err := c.NotificationService.MarkRead(user.UserID, ctx.Param("id"), incoming)
	if err != nil {
		if errors.Is(err, util.ErrNotificationGone) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 全部标记已读
// @Tags 通知
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/notifications/read-all [post]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	affected, err := c.NotificationService.MarkAllRead(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"marked": affected})
}

// @Summary 删除通知
// @Description 删除不存在的通知同样返回成功
// @Tags 通知
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "通知ID"
// @Success 200 {object} util.Response
// @Router /api/notifications/{id} [delete]
func (c *NotificationController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.NotificationService.Delete(user.UserID, ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 批量删除通知
// @Description 默认清空全部通知，read=true 时只删已读保留未读
// @Tags 通知
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param read query bool false "只删已读"
// @Success 200 {object} util.Response
// @Router /api/notifications [delete]
func (c *NotificationController) Clear(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	affected, err := c.NotificationService.Clear(user.UserID, ctx.Query("read") == "true")
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": affected})
}

// @Summary 通知推送 WebSocket
// @Description 建立 WebSocket 连接接收实时通知推送
// @Tags 通知
// @Security BearerAuth
// @Router /api/notifications/ws [get]
func (c *NotificationController) ServeWS(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	service.ServeWs(c.Hub, ctx.Writer, ctx.Request, user.UserID)
}
