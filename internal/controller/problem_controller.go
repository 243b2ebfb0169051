package controller

import (
	"errors"
	"strconv"

	"placement_prep_backend/internal/model"
	"placement_prep_backend/internal/service"
	"placement_prep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProblemController struct {
	ProblemService *service.ProblemService
}

func NewProblemController(problemService *service.ProblemService) *ProblemController {
	return &ProblemController{ProblemService: problemService}
}

// @Summary 题目列表
// @Description 分页获取题目目录镜像
// @Tags 题目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param difficulty query string false "难度过滤" Enums(easy, medium, hard)
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/problems [get]
func (c *ProblemController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	result, err := c.ProblemService.List(ctx.Query("difficulty"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 创建题目
// @Description 管理端向题目镜像写入新题
// @Tags 题目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.Problem true "题目"
// @Success 201 {object} util.Response
// @Router /api/problems [post]
func (c *ProblemController) Create(ctx *gin.Context) {
	var problem model.Problem
	if err := ctx.ShouldBindJSON(&problem); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	if err := c.ProblemService.Create(&problem); err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidEvent):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrSlugTaken):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, gin.H{"id": problem.ID, "slug": problem.Slug})
}
