package controller

import (
	"astro_learn_backend/internal/service"
	"astro_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// @Summary 获取用户成就
// @Description 获取当前用户已授予的成就，按授予时间倒序
// @Tags 成就系统
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/achievements [get]
func (c *AchievementController) GetUserAchievements(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	achievements, err := c.AchievementService.GetUserAchievements(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, achievements)
}
