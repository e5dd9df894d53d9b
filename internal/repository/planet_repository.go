package repository

import (
	"astro_learn_backend/internal/model"

	"gorm.io/gorm"
)

type PlanetRepository struct {
	DB *gorm.DB
}

func NewPlanetRepository(db *gorm.DB) *PlanetRepository {
	return &PlanetRepository{DB: db}
}

func (r *PlanetRepository) FindByID(id uint) (*model.Planet, error) {
	var planet model.Planet
	err := r.DB.First(&planet, id).Error
	if err != nil {
		return nil, err
	}
	return &planet, nil
}

// FindActiveOrdered 按全局顺序返回激活的行星
func (r *PlanetRepository) FindActiveOrdered() ([]model.Planet, error) {
	var planets []model.Planet
	err := r.DB.Where("is_active = ?", true).
		Order("order_index ASC, id ASC").
		Find(&planets).Error
	return planets, err
}
