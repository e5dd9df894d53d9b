package controller

import (
	"astro_learn_backend/internal/service"
	"astro_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PlanetController struct {
	UnlockService *service.UnlockService
}

func NewPlanetController(unlockService *service.UnlockService) *PlanetController {
	return &PlanetController{UnlockService: unlockService}
}

// @Summary 获取星球地图
// @Description 获取全部激活星球及其关卡，带当前用户的解锁与完成标记
// @Tags 星球
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/planets [get]
func (c *PlanetController) GetPlanetMap(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	planets, err := c.UnlockService.PlanetMap(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, planets)
}

// @Summary 获取解锁关卡
// @Description 获取当前用户已解锁的关卡 ID 列表
// @Tags 星球
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/planets/unlocked [get]
func (c *PlanetController) GetUnlockedLevels(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	ids, err := c.UnlockService.UnlockedLevelIDs(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"unlockedLevelIds": ids})
}
