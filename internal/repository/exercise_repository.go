package repository

import (
	"astro_learn_backend/internal/model"

	"gorm.io/gorm"
)

type ExerciseRepository struct {
	DB *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{DB: db}
}

func (r *ExerciseRepository) FindByID(id uint) (*model.Exercise, error) {
	var exercise model.Exercise
	err := r.DB.First(&exercise, id).Error
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (r *ExerciseRepository) FindActiveByLevel(levelID uint) ([]model.Exercise, error) {
	var exercises []model.Exercise
	err := r.DB.Where("level_id = ? AND is_active = ?", levelID, true).
		Order("id ASC").
		Find(&exercises).Error
	return exercises, err
}

// CountActiveByLevel 进度百分比与完成判定的分母
func (r *ExerciseRepository) CountActiveByLevel(levelID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Exercise{}).
		Where("level_id = ? AND is_active = ?", levelID, true).
		Count(&count).Error
	return count, err
}
