package repository

import (
	"astro_learn_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Create 依赖 (user_id, exercise_id) 唯一索引；重复插入返回 gorm.ErrDuplicatedKey
func (r *AttemptRepository) Create(attempt *model.ExerciseAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) HasAttempted(userID, exerciseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ExerciseAttempt{}).
		Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		Count(&count).Error
	return count > 0, err
}

func (r *AttemptRepository) FindByUserAndLevel(userID, levelID uint) ([]model.ExerciseAttempt, error) {
	var attempts []model.ExerciseAttempt
	err := r.DB.Where("user_id = ? AND level_id = ?", userID, levelID).
		Order("attempted_at ASC").
		Find(&attempts).Error
	return attempts, err
}
