package repository

import (
	"astro_learn_backend/internal/model"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) FindByCode(code string) (*model.Achievement, error) {
	var achievement model.Achievement
	err := r.DB.Where("code = ?", code).First(&achievement).Error
	if err != nil {
		return nil, err
	}
	return &achievement, nil
}

// Upsert 按 code 幂等播种成就目录，已存在则不覆盖运营侧的改动
func (r *AchievementRepository) Upsert(achievement *model.Achievement) error {
	var existing model.Achievement
	err := r.DB.Where("code = ?", achievement.Code).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(achievement).Error
	}
	return err
}

func (r *AchievementRepository) GrantExists(userID, achievementID, levelID, planetID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.AchievementGrant{}).
		Where("user_id = ? AND achievement_id = ? AND level_id = ? AND planet_id = ?",
			userID, achievementID, levelID, planetID).
		Count(&count).Error
	return count > 0, err
}

func (r *AchievementRepository) CreateGrant(grant *model.AchievementGrant) error {
	return r.DB.Create(grant).Error
}

func (r *AchievementRepository) FindGrantsByUser(userID uint) ([]model.GrantView, error) {
	var grants []model.GrantView
	err := r.DB.Model(&model.AchievementGrant{}).
		Select(`achievements.code, achievements.name, achievements.description,
			achievements.points, achievements.icon,
			achievement_grants.level_id, achievement_grants.planet_id,
			achievement_grants.awarded_at`).
		Joins("JOIN achievements ON achievements.id = achievement_grants.achievement_id").
		Where("achievement_grants.user_id = ?", userID).
		Order("achievement_grants.awarded_at DESC").
		Scan(&grants).Error
	return grants, err
}
