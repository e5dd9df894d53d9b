package repository

import (
	"astro_learn_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByUserAndLevel(userID, levelID uint) (*model.StudentProgress, error) {
	var progress model.StudentProgress
	err := r.DB.Where("user_id = ? AND level_id = ?", userID, levelID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) Create(progress *model.StudentProgress) error {
	return r.DB.Create(progress).Error
}

// IncrementCounters 以原子自增更新计数器，避免并发提交下的丢失更新
func (r *ProgressRepository) IncrementCounters(userID, levelID uint, correct bool, score, timeTaken int) error {
	correctDelta := 0
	if correct {
		correctDelta = 1
	}
	return r.DB.Model(&model.StudentProgress{}).
		Where("user_id = ? AND level_id = ?", userID, levelID).
		Updates(map[string]interface{}{
			"answered_count": gorm.Expr("answered_count + ?", 1),
			"correct_count":  gorm.Expr("correct_count + ?", correctDelta),
			"score":          gorm.Expr("score + ?", score),
			"time_spent":     gorm.Expr("time_spent + ?", timeTaken),
			"last_accessed":  time.Now(),
		}).Error
}

// UpdateCompletion 写入派生字段。is_completed/completed_at 带守卫更新：
// 只允许 false -> true 的单向迁移，completed_at 只在迁移那一刻写入。
func (r *ProgressRepository) UpdateCompletion(userID, levelID uint, percentage float64, completed bool) error {
	if err := r.DB.Model(&model.StudentProgress{}).
		Where("user_id = ? AND level_id = ?", userID, levelID).
		Update("completion_percentage", percentage).Error; err != nil {
		return err
	}

	if !completed {
		return nil
	}

	now := time.Now()
	return r.DB.Model(&model.StudentProgress{}).
		Where("user_id = ? AND level_id = ? AND is_completed = ?", userID, levelID, false).
		Updates(map[string]interface{}{
			"is_completed": true,
			"completed_at": now,
		}).Error
}

func (r *ProgressRepository) FindByUser(userID uint) ([]model.ProgressRow, error) {
	var rows []model.ProgressRow
	err := r.DB.Model(&model.StudentProgress{}).
		Select(`student_progress.id, student_progress.user_id, student_progress.level_id,
			levels.title AS level_title, levels.order_index AS level_order,
			levels.planet_id AS planet_id, planets.title AS planet_title,
			student_progress.answered_count, student_progress.correct_count,
			student_progress.score, student_progress.time_spent,
			student_progress.completion_percentage, student_progress.is_completed,
			student_progress.completed_at`).
		Joins("JOIN levels ON levels.id = student_progress.level_id").
		Joins("JOIN planets ON planets.id = levels.planet_id").
		Where("student_progress.user_id = ?", userID).
		Order("planets.order_index ASC, levels.order_index ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *ProgressRepository) FindByUserAndPlanet(userID, planetID uint) ([]model.ProgressRow, error) {
	var rows []model.ProgressRow
	err := r.DB.Model(&model.StudentProgress{}).
		Select(`student_progress.id, student_progress.user_id, student_progress.level_id,
			levels.title AS level_title, levels.order_index AS level_order,
			levels.planet_id AS planet_id, planets.title AS planet_title,
			student_progress.answered_count, student_progress.correct_count,
			student_progress.score, student_progress.time_spent,
			student_progress.completion_percentage, student_progress.is_completed,
			student_progress.completed_at`).
		Joins("JOIN levels ON levels.id = student_progress.level_id").
		Joins("JOIN planets ON planets.id = levels.planet_id").
		Where("student_progress.user_id = ? AND levels.planet_id = ?", userID, planetID).
		Order("levels.order_index ASC").
		Scan(&rows).Error
	return rows, err
}

// CompletedLevelIDs 解锁推导的输入：该用户已完成的关卡集合
func (r *ProgressRepository) CompletedLevelIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.StudentProgress{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Pluck("level_id", &ids).Error
	return ids, err
}

// CountCompletedInPlanet 只统计仍激活的关卡
func (r *ProgressRepository) CountCompletedInPlanet(userID, planetID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.StudentProgress{}).
		Joins("JOIN levels ON levels.id = student_progress.level_id").
		Where("student_progress.user_id = ? AND levels.planet_id = ? AND levels.is_active = ? AND student_progress.is_completed = ?",
			userID, planetID, true, true).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) GetUserStats(userID uint) (*model.UserStats, error) {
	var stats struct {
		LevelsStarted   int64
		LevelsCompleted int64
		AverageScore    float64
		TotalTimeSpent  int64
		PlanetsAccessed int64
	}
	err := r.DB.Model(&model.StudentProgress{}).
		Select(`COUNT(DISTINCT student_progress.level_id) AS levels_started,
			COUNT(DISTINCT CASE WHEN student_progress.is_completed THEN student_progress.level_id END) AS levels_completed,
			COALESCE(AVG(student_progress.score), 0) AS average_score,
			COALESCE(SUM(student_progress.time_spent), 0) AS total_time_spent,
			COUNT(DISTINCT levels.planet_id) AS planets_accessed`).
		Joins("JOIN levels ON levels.id = student_progress.level_id").
		Where("student_progress.user_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &model.UserStats{
		LevelsStarted:   int(stats.LevelsStarted),
		LevelsCompleted: int(stats.LevelsCompleted),
		AverageScore:    stats.AverageScore,
		TotalTimeSpent:  int(stats.TotalTimeSpent),
		PlanetsAccessed: int(stats.PlanetsAccessed),
	}, nil
}

// GetLevelRanking 关卡排行：分数降序，完成度降序，用时升序
func (r *ProgressRepository) GetLevelRanking(levelID uint, limit int) ([]model.RankingEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var entries []model.RankingEntry
	err := r.DB.Model(&model.StudentProgress{}).
		Select(`student_progress.user_id, users.name AS user_name, student_progress.level_id,
			student_progress.score, student_progress.completion_percentage,
			student_progress.time_spent, student_progress.is_completed`).
		Joins("JOIN users ON users.id = student_progress.user_id").
		Where("student_progress.level_id = ?", levelID).
		Order("student_progress.score DESC, student_progress.completion_percentage DESC, student_progress.time_spent ASC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}
