package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"astro_learn_backend/internal/model"
	"astro_learn_backend/internal/repository"
	"astro_learn_backend/internal/util"
	"astro_learn_backend/pkg/logger"
	"astro_learn_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProgressService struct {
	exerciseRepo  *repository.ExerciseRepository
	attemptRepo   *repository.AttemptRepository
	progressRepo  *repository.ProgressRepository
	levelRepo     *repository.LevelRepository
	planetRepo    *repository.PlanetRepository
	userRepo      *repository.UserRepository
	unlockService *UnlockService
	DB            *gorm.DB
}

func NewProgressService(
	exerciseRepo *repository.ExerciseRepository,
	attemptRepo *repository.AttemptRepository,
	progressRepo *repository.ProgressRepository,
	levelRepo *repository.LevelRepository,
	planetRepo *repository.PlanetRepository,
	userRepo *repository.UserRepository,
	unlockService *UnlockService,
	db *gorm.DB,
) *ProgressService {
	return &ProgressService{
		exerciseRepo:  exerciseRepo,
		attemptRepo:   attemptRepo,
		progressRepo:  progressRepo,
		levelRepo:     levelRepo,
		planetRepo:    planetRepo,
		userRepo:      userRepo,
		unlockService: unlockService,
		DB:            db,
	}
}

type SubmitExerciseRequest struct {
	Answer    string `json:"answer" binding:"required"`
	TimeTaken int    `json:"timeTaken"`
	HintsUsed int    `json:"hintsUsed"`
}

type SubmitExerciseResponse struct {
	Result         SubmissionResult       `json:"result"`
	Progress       *model.StudentProgress `json:"progress"`
	NewGrants      []model.GrantView      `json:"newAchievements,omitempty"`
	LevelCompleted bool                   `json:"levelCompleted"`
}

// SubmitExercise 一次提交的完整流程：判题、记账、完成判定、成就评估。
// 账本写入和成就授予在同一事务内，(user, exercise) 唯一索引保证单次作答。
func (s *ProgressService) SubmitExercise(ctx context.Context, userID, exerciseID uint, req SubmitExerciseRequest) (*SubmitExerciseResponse, error) {
	if strings.TrimSpace(req.Answer) == "" {
		monitoring.SubmissionCounter.WithLabelValues("error").Inc()
		return nil, util.ErrInvalidAnswer
	}
	if req.TimeTaken < 0 {
		req.TimeTaken = 0
	}

	exercise, err := s.exerciseRepo.FindByID(exerciseID)
	if err != nil || !exercise.IsActive {
		monitoring.SubmissionCounter.WithLabelValues("error").Inc()
		return nil, util.ErrExerciseNotFound
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		monitoring.SubmissionCounter.WithLabelValues("error").Inc()
		return nil, util.ErrUserNotFound
	}
	level, err := s.levelRepo.FindByID(exercise.LevelID)
	if err != nil {
		monitoring.SubmissionCounter.WithLabelValues("error").Inc()
		return nil, util.ErrLevelNotFound
	}

	result := EvaluateExercise(exercise, req.Answer, req.TimeTaken)

	response := &SubmitExerciseResponse{Result: result}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		attemptRepo := repository.NewAttemptRepository(tx)
		progressRepo := repository.NewProgressRepository(tx)
		exerciseRepo := repository.NewExerciseRepository(tx)

		attempt := &model.ExerciseAttempt{
			UserID:      userID,
			ExerciseID:  exercise.ID,
			LevelID:     exercise.LevelID,
			Answer:      req.Answer,
			IsCorrect:   result.IsCorrect,
			Score:       result.Score,
			TimeTaken:   req.TimeTaken,
			HintsUsed:   req.HintsUsed,
			AttemptedAt: time.Now(),
		}
		if err := attemptRepo.Create(attempt); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return util.ErrAlreadySubmitted
			}
			return err
		}

		progress, err := progressRepo.FindByUserAndLevel(userID, exercise.LevelID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created := &model.StudentProgress{
				UserID:       userID,
				LevelID:      exercise.LevelID,
				LastAccessed: time.Now(),
			}
			if err := progressRepo.Create(created); err != nil {
				// 并发首答撞唯一索引，重读即可
				if !errors.Is(err, gorm.ErrDuplicatedKey) {
					return err
				}
			}
			progress, err = progressRepo.FindByUserAndLevel(userID, exercise.LevelID)
		}
		if err != nil {
			return err
		}

		wasCompleted := progress.IsCompleted

		if err := progressRepo.IncrementCounters(userID, exercise.LevelID, result.IsCorrect, result.Score, req.TimeTaken); err != nil {
			return err
		}

		totalExercises, err := exerciseRepo.CountActiveByLevel(exercise.LevelID)
		if err != nil {
			return err
		}

		progress, err = progressRepo.FindByUserAndLevel(userID, exercise.LevelID)
		if err != nil {
			return err
		}

		percentage := 0.0
		completed := false
		if totalExercises > 0 {
			percentage = math.Min(100, float64(progress.AnsweredCount)/float64(totalExercises)*100)
			completed = int64(progress.AnsweredCount) >= totalExercises
		}
		if err := progressRepo.UpdateCompletion(userID, exercise.LevelID, percentage, completed); err != nil {
			return err
		}

		progress.CompletionPercentage = percentage
		if completed && !progress.IsCompleted {
			progress.IsCompleted = true
			now := time.Now()
			progress.CompletedAt = &now
		}
		response.Progress = progress

		if completed && !wasCompleted {
			response.LevelCompleted = true
			grants, err := EvaluateOnLevelCompletion(tx, userID, level, progress, totalExercises)
			if err != nil {
				return err
			}
			response.NewGrants = grants
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, util.ErrAlreadySubmitted) {
			monitoring.SubmissionCounter.WithLabelValues("duplicate").Inc()
		} else {
			monitoring.SubmissionCounter.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	s.unlockService.Invalidate(ctx, userID)

	if result.IsCorrect {
		monitoring.SubmissionCounter.WithLabelValues("correct").Inc()
	} else {
		monitoring.SubmissionCounter.WithLabelValues("incorrect").Inc()
	}
	logger.Log.Info("提交判题完成",
		zap.Uint("userId", userID),
		zap.Uint("exerciseId", exerciseID),
		zap.Bool("correct", result.IsCorrect),
		zap.Int("score", result.Score),
		zap.Bool("levelCompleted", response.LevelCompleted))

	return response, nil
}

// GetProgressSnapshot 用户全量进度视图
func (s *ProgressService) GetProgressSnapshot(userID uint) ([]model.ProgressRow, error) {
	return s.progressRepo.FindByUser(userID)
}

type LevelDetail struct {
	Progress       *model.StudentProgress  `json:"progress"`
	Attempts       []model.ExerciseAttempt `json:"attempts"`
	TotalExercises int64                   `json:"totalExercises"`
}

func (s *ProgressService) GetLevelDetail(userID, levelID uint) (*LevelDetail, error) {
	if _, err := s.levelRepo.FindByID(levelID); err != nil {
		return nil, util.ErrLevelNotFound
	}
	progress, err := s.progressRepo.FindByUserAndLevel(userID, levelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProgressNotFound
		}
		return nil, err
	}
	attempts, err := s.attemptRepo.FindByUserAndLevel(userID, levelID)
	if err != nil {
		return nil, err
	}
	total, err := s.exerciseRepo.CountActiveByLevel(levelID)
	if err != nil {
		return nil, err
	}
	return &LevelDetail{Progress: progress, Attempts: attempts, TotalExercises: total}, nil
}

type PlanetProgress struct {
	PlanetID        uint                `json:"planetId"`
	Title           string              `json:"title"`
	TotalLevels     int64               `json:"totalLevels"`
	CompletedLevels int64               `json:"completedLevels"`
	Levels          []model.ProgressRow `json:"levels"`
}

func (s *ProgressService) GetPlanetProgress(userID, planetID uint) (*PlanetProgress, error) {
	planet, err := s.planetRepo.FindByID(planetID)
	if err != nil {
		return nil, util.ErrPlanetNotFound
	}
	total, err := s.levelRepo.CountActiveByPlanet(planetID)
	if err != nil {
		return nil, err
	}
	completed, err := s.progressRepo.CountCompletedInPlanet(userID, planetID)
	if err != nil {
		return nil, err
	}
	rows, err := s.progressRepo.FindByUserAndPlanet(userID, planetID)
	if err != nil {
		return nil, err
	}
	return &PlanetProgress{
		PlanetID:        planet.ID,
		Title:           planet.Title,
		TotalLevels:     total,
		CompletedLevels: completed,
		Levels:          rows,
	}, nil
}

func (s *ProgressService) GetUserStats(userID uint) (*model.UserStats, error) {
	return s.progressRepo.GetUserStats(userID)
}

func (s *ProgressService) GetLevelRanking(levelID uint, limit int) ([]model.RankingEntry, error) {
	if _, err := s.levelRepo.FindByID(levelID); err != nil {
		return nil, util.ErrLevelNotFound
	}
	return s.progressRepo.GetLevelRanking(levelID, limit)
}
