package controller

import (
	"errors"
	"strconv"

	"astro_learn_backend/internal/service"
	"astro_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
	UnlockService   *service.UnlockService
}

func NewProgressController(progressService *service.ProgressService, unlockService *service.UnlockService) *ProgressController {
	return &ProgressController{
		ProgressService: progressService,
		UnlockService:   unlockService,
	}
}

// @Summary 提交答案
// @Description 提交一道题目的答案并返回判题结果。每题每人只能提交一次。
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exerciseId path int true "题目ID"
// @Param request body service.SubmitExerciseRequest true "答案"
// @Success 200 {object} util.Response
// @Router /api/exercises/{exerciseId}/submit [post]
func (c *ProgressController) SubmitExercise(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	exerciseID, err := strconv.Atoi(ctx.Param("exerciseId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid exercise ID")
		return
	}

	var req service.SubmitExerciseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.ProgressService.SubmitExercise(ctx.Request.Context(), user.UserID, uint(exerciseID), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidAnswer):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrExerciseNotFound), errors.Is(err, util.ErrLevelNotFound), errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadySubmitted):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, resp)
}

// @Summary 获取用户进度
// @Description 获取当前用户在所有关卡上的进度
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

	rows, err := c.ProgressService.GetProgressSnapshot(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	unlocked, err := c.UnlockService.UnlockedLevelIDs(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"levels":           rows,
		"unlockedLevelIds": unlocked,
	})
}

// @Summary 获取关卡进度详情
// @Description 获取当前用户在指定关卡的进度与作答记录
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param levelId path int true "关卡ID"
// @Success 200 {object} util.Response
// @Router /api/progress/levels/{levelId} [get]
func (c *ProgressController) GetLevelDetail(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	levelID, err := strconv.Atoi(ctx.Param("levelId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid level ID")
		return
	}

	detail, err := c.ProgressService.GetLevelDetail(user.UserID, uint(levelID))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLevelNotFound), errors.Is(err, util.ErrProgressNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, detail)
}

// @Summary 获取星球进度
// @Description 获取当前用户在指定星球的完成情况
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planetId path int true "星球ID"
// @Success 200 {object} util.Response
// @Router /api/progress/planets/{planetId} [get]
func (c *ProgressController) GetPlanetProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	planetID, err := strconv.Atoi(ctx.Param("planetId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid planet ID")
		return
	}

	progress, err := c.ProgressService.GetPlanetProgress(user.UserID, uint(planetID))
	if err != nil {
		if errors.Is(err, util.ErrPlanetNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// @Summary 获取学习统计
// @Description 获取当前用户的聚合统计
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/progress/stats [get]
func (c *ProgressController) GetUserStats(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.ProgressService.GetUserStats(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// @Summary 获取关卡排行
// @Description 获取指定关卡的成绩排行
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param levelId path int true "关卡ID"
// @Param limit query int false "返回数量" default(100)
// @Success 200 {object} util.Response
// @Router /api/levels/{levelId}/ranking [get]
func (c *ProgressController) GetLevelRanking(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	levelID, err := strconv.Atoi(ctx.Param("levelId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid level ID")
		return
	}

	limit := 100
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	ranking, err := c.ProgressService.GetLevelRanking(uint(levelID), limit)
	if err != nil {
		if errors.Is(err, util.ErrLevelNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, ranking)
}
