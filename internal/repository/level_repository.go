package repository

import (
	"astro_learn_backend/internal/model"

	"gorm.io/gorm"
)

type LevelRepository struct {
	DB *gorm.DB
}

func NewLevelRepository(db *gorm.DB) *LevelRepository {
	return &LevelRepository{DB: db}
}

func (r *LevelRepository) FindByID(id uint) (*model.Level, error) {
	var level model.Level
	err := r.DB.First(&level, id).Error
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// FindActiveByPlanet 返回行星内激活关卡，按 order_index 升序
func (r *LevelRepository) FindActiveByPlanet(planetID uint) ([]model.Level, error) {
	var levels []model.Level
	err := r.DB.Where("planet_id = ? AND is_active = ?", planetID, true).
		Order("order_index ASC, id ASC").
		Find(&levels).Error
	return levels, err
}

func (r *LevelRepository) CountActiveByPlanet(planetID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Level{}).
		Where("planet_id = ? AND is_active = ?", planetID, true).
		Count(&count).Error
	return count, err
}
