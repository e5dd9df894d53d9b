package model

import "time"

const (
	AchievementLevelCompleted  = "LEVEL_COMPLETED"
	AchievementPerfectLevel    = "PERFECT_LEVEL"
	AchievementPlanetCompleted = "PLANET_COMPLETED"
)

// Achievement 成就目录项，启动时按 Code 幂等播种
// swagger:model Achievement
type Achievement struct {
	BaseModel
	Code        string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Points      int    `gorm:"default:0" json:"points"`
	Icon        string `gorm:"size:255" json:"icon"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// AchievementGrant 用户与成就的一次性关联。
// LevelID/PlanetID 取 0 表示该维度无作用域；四列联合唯一索引是防重复授予的
// 最终约束（应用层 exists 检查只是快捷路径）。
// swagger:model AchievementGrant
type AchievementGrant struct {
	BaseModel
	UserID        uint      `gorm:"uniqueIndex:idx_grant_scope;type:bigint unsigned;not null" json:"userId"`
	AchievementID uint      `gorm:"uniqueIndex:idx_grant_scope;type:bigint unsigned;not null" json:"achievementId"`
	LevelID       uint      `gorm:"uniqueIndex:idx_grant_scope;type:bigint unsigned;not null;default:0" json:"levelId,omitempty"`
	PlanetID      uint      `gorm:"uniqueIndex:idx_grant_scope;type:bigint unsigned;not null;default:0" json:"planetId,omitempty"`
	AwardedAt     time.Time `json:"awardedAt"`
}

func (AchievementGrant) TableName() string {
	return "achievement_grants"
}
