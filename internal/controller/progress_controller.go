package controller

import (
	"errors"

	"placement_prep_backend/internal/service"
	"placement_prep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary 获取学习进度
// @Description 获取用户进度快照与每个成就的完成度
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	report, err := c.ProgressService.GetProgress(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// @Summary 上报题目提交
// @Description 记录一次题目提交事件
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.AttemptEvent true "提交事件"
// @Success 200 {object} util.Response
// @Router /api/progress/attempts [post]
func (c *ProgressController) RecordAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var ev service.AttemptEvent
	if err := ctx.ShouldBindJSON(&ev); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	result, err := c.ProgressService.RecordAttempt(user.UserID, ev)
	c.respond(ctx, result, err)
}

// @Summary 上报题目解出
// @Description 记录一次题目解出事件，触发成就对账
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.SolveEvent true "解题事件"
// @Success 200 {object} util.Response
// @Router /api/progress/solves [post]
func (c *ProgressController) RecordSolve(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var ev service.SolveEvent
	if err := ctx.ShouldBindJSON(&ev); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	result, err := c.ProgressService.RecordSolve(user.UserID, ev)
	c.respond(ctx, result, err)
}

// @Summary 上报模拟面试完成
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.InterviewEvent true "面试事件"
// @Success 200 {object} util.Response
// @Router /api/progress/interviews [post]
func (c *ProgressController) RecordInterview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var ev service.InterviewEvent
	if err := ctx.ShouldBindJSON(&ev); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	result, err := c.ProgressService.RecordInterview(user.UserID, ev)
	c.respond(ctx, result, err)
}

// @Summary 上报学习时长
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.StudyTimeEvent true "学习时长事件"
// @Success 200 {object} util.Response
// @Router /api/progress/study-time [post]
func (c *ProgressController) RecordStudyTime(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var ev service.StudyTimeEvent
	if err := ctx.ShouldBindJSON(&ev); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	result, err := c.ProgressService.RecordStudyTime(user.UserID, ev)
	c.respond(ctx, result, err)
}

// @Summary 上报竞赛参与
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ContestEvent true "竞赛事件"
// @Success 200 {object} util.Response
// @Router /api/progress/contests [post]
func (c *ProgressController) RecordContest(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var ev service.ContestEvent
	if err := ctx.ShouldBindJSON(&ev); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	result, err := c.ProgressService.RecordContest(user.UserID, ev)
	c.respond(ctx, result, err)
}

// @Summary 上报里程碑
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.MilestoneEvent true "里程碑事件"
// @Success 200 {object} util.Response
// @Router /api/progress/milestones [post]
func (c *ProgressController) RecordMilestone(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var ev service.MilestoneEvent
	if err := ctx.ShouldBindJSON(&ev); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	result, err := c.ProgressService.RecordMilestone(user.UserID, ev)
	c.respond(ctx, result, err)
}

func (c *ProgressController) respond(ctx *gin.Context, result *service.EventResult, err error) {
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidEvent):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrProblemNotFound):
			util.Error(ctx, 404, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.Error(ctx, 404, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}
