package service

import (
	"errors"
	"time"

	"astro_learn_backend/internal/model"
	"astro_learn_backend/internal/repository"
	"astro_learn_backend/pkg/monitoring"

	"gorm.io/gorm"
)

type AchievementService struct {
	achievementRepo *repository.AchievementRepository
	DB              *gorm.DB
}

func NewAchievementService(achievementRepo *repository.AchievementRepository, db *gorm.DB) *AchievementService {
	return &AchievementService{
		achievementRepo: achievementRepo,
		DB:              db,
	}
}

// DefaultAchievements 内置成就目录
func DefaultAchievements() []model.Achievement {
	return []model.Achievement{
		{
			Code:        model.AchievementLevelCompleted,
			Name:        "关卡完成",
			Description: "完成一个关卡的全部题目",
			Points:      10,
			Icon:        "medal",
		},
		{
			Code:        model.AchievementPerfectLevel,
			Name:        "完美通关",
			Description: "全部答对完成一个关卡",
			Points:      25,
			Icon:        "star",
		},
		{
			Code:        model.AchievementPlanetCompleted,
			Name:        "星球征服",
			Description: "完成一个星球的所有关卡",
			Points:      50,
			Icon:        "planet",
		},
	}
}

// Seed 启动时幂等播种成就目录，重复启动不产生副作用
func (s *AchievementService) Seed() error {
	for _, achievement := range DefaultAchievements() {
		a := achievement
		if err := s.achievementRepo.Upsert(&a); err != nil {
			return err
		}
	}
	return nil
}

func (s *AchievementService) GetUserAchievements(userID uint) ([]model.GrantView, error) {
	return s.achievementRepo.FindGrantsByUser(userID)
}

// EvaluateOnLevelCompletion 在提交事务内评估成就规则。
// 只在关卡刚迁移到完成态时调用，返回本次新授予的成就视图。
// 授予与 XP 奖励和提交写入同事务，要么全部生效要么全部回滚。
func EvaluateOnLevelCompletion(tx *gorm.DB, userID uint, level *model.Level, progress *model.StudentProgress, totalExercises int64) ([]model.GrantView, error) {
	achievementRepo := repository.NewAchievementRepository(tx)
	progressRepo := repository.NewProgressRepository(tx)
	levelRepo := repository.NewLevelRepository(tx)
	userRepo := repository.NewUserRepository(tx)

	var granted []model.GrantView

	grant := func(code string, levelID, planetID uint) error {
		achievement, err := achievementRepo.FindByCode(code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if !achievement.IsActive {
			return nil
		}

		exists, err := achievementRepo.GrantExists(userID, achievement.ID, levelID, planetID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		now := time.Now()
		err = achievementRepo.CreateGrant(&model.AchievementGrant{
			UserID:        userID,
			AchievementID: achievement.ID,
			LevelID:       levelID,
			PlanetID:      planetID,
			AwardedAt:     now,
		})
		if err != nil {
			// 并发提交撞唯一索引按已授予处理
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}

		if achievement.Points > 0 {
			if err := userRepo.UpdateXP(userID, achievement.Points); err != nil {
				return err
			}
		}

		monitoring.AchievementCounter.WithLabelValues(code).Inc()
		granted = append(granted, model.GrantView{
			Code:        achievement.Code,
			Name:        achievement.Name,
			Description: achievement.Description,
			Points:      achievement.Points,
			Icon:        achievement.Icon,
			LevelID:     levelID,
			PlanetID:    planetID,
			AwardedAt:   now,
		})
		return nil
	}

	if err := grant(model.AchievementLevelCompleted, level.ID, 0); err != nil {
		return nil, err
	}

	if totalExercises > 0 && int64(progress.CorrectCount) >= totalExercises {
		if err := grant(model.AchievementPerfectLevel, level.ID, 0); err != nil {
			return nil, err
		}
	}

	totalLevels, err := levelRepo.CountActiveByPlanet(level.PlanetID)
	if err != nil {
		return nil, err
	}
	completedLevels, err := progressRepo.CountCompletedInPlanet(userID, level.PlanetID)
	if err != nil {
		return nil, err
	}
	if totalLevels > 0 && completedLevels >= totalLevels {
		if err := grant(model.AchievementPlanetCompleted, 0, level.PlanetID); err != nil {
			return nil, err
		}
	}

	return granted, nil
}
