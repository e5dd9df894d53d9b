package service

import (
	"context"

	"astro_learn_backend/internal/model"
	"astro_learn_backend/internal/repository"
	"astro_learn_backend/internal/util"
)

type ExerciseService struct {
	exerciseRepo   *repository.ExerciseRepository
	attemptRepo    *repository.AttemptRepository
	levelRepo      *repository.LevelRepository
	unlockService  *UnlockService
	storageService *StorageService
}

func NewExerciseService(
	exerciseRepo *repository.ExerciseRepository,
	attemptRepo *repository.AttemptRepository,
	levelRepo *repository.LevelRepository,
	unlockService *UnlockService,
	storageService *StorageService,
) *ExerciseService {
	return &ExerciseService{
		exerciseRepo:   exerciseRepo,
		attemptRepo:    attemptRepo,
		levelRepo:      levelRepo,
		unlockService:  unlockService,
		storageService: storageService,
	}
}

// ExerciseView 面向学生的题目视图，不含正确答案
type ExerciseView struct {
	model.Exercise
	ImageURL  string `json:"imageUrl,omitempty"`
	Attempted bool   `json:"attempted"`
}

// ListByLevel 返回关卡的激活题目。关卡必须已解锁，否则拒绝。
func (s *ExerciseService) ListByLevel(ctx context.Context, userID, levelID uint) ([]ExerciseView, error) {
	level, err := s.levelRepo.FindByID(levelID)
	if err != nil || !level.IsActive {
		return nil, util.ErrLevelNotFound
	}

	unlocked, err := s.unlockService.IsUnlocked(ctx, userID, levelID)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, util.ErrLevelLocked
	}

	exercises, err := s.exerciseRepo.FindActiveByLevel(levelID)
	if err != nil {
		return nil, err
	}

	views := make([]ExerciseView, 0, len(exercises))
	for _, exercise := range exercises {
		view := ExerciseView{Exercise: exercise}
		if exercise.Type == model.ExerciseTypeImageChoice && exercise.ImageKey != "" {
			view.ImageURL = s.storageService.GetURL(ctx, exercise.ImageKey)
		}
		attempted, err := s.attemptRepo.HasAttempted(userID, exercise.ID)
		if err != nil {
			return nil, err
		}
		view.Attempted = attempted
		views = append(views, view)
	}
	return views, nil
}
