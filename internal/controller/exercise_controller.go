package controller

import (
	"errors"
	"strconv"

	"astro_learn_backend/internal/service"
	"astro_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExerciseController struct {
	ExerciseService *service.ExerciseService
}

func NewExerciseController(exerciseService *service.ExerciseService) *ExerciseController {
	return &ExerciseController{ExerciseService: exerciseService}
}

// @Summary 获取关卡题目
// @Description 获取关卡的激活题目列表，正确答案不下发。关卡未解锁时返回 403。
// @Tags 题目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param levelId path int true "关卡ID"
// @Success 200 {object} util.Response
// @Router /api/levels/{levelId}/exercises [get]
func (c *ExerciseController) ListByLevel(ctx *gin.Context) {
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

	exercises, err := c.ExerciseService.ListByLevel(ctx.Request.Context(), user.UserID, uint(levelID))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLevelNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrLevelLocked):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, exercises)
}
