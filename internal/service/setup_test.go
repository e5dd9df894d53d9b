package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"astro_learn_backend/internal/model"
	"astro_learn_backend/internal/repository"
	"astro_learn_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq int64

// newTestDB 每个测试独立的内存库，cache=shared 保证连接池共享同一份数据
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Log = zap.NewNop()

	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Planet{},
		&model.Level{},
		&model.Exercise{},
		&model.ExerciseAttempt{},
		&model.StudentProgress{},
		&model.Achievement{},
		&model.AchievementGrant{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

type testEnv struct {
	db *gorm.DB

	userRepo        *repository.UserRepository
	planetRepo      *repository.PlanetRepository
	levelRepo       *repository.LevelRepository
	exerciseRepo    *repository.ExerciseRepository
	attemptRepo     *repository.AttemptRepository
	progressRepo    *repository.ProgressRepository
	achievementRepo *repository.AchievementRepository

	unlock      *UnlockService
	progress    *ProgressService
	achievement *AchievementService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	env := &testEnv{
		db:              db,
		userRepo:        repository.NewUserRepository(db),
		planetRepo:      repository.NewPlanetRepository(db),
		levelRepo:       repository.NewLevelRepository(db),
		exerciseRepo:    repository.NewExerciseRepository(db),
		attemptRepo:     repository.NewAttemptRepository(db),
		progressRepo:    repository.NewProgressRepository(db),
		achievementRepo: repository.NewAchievementRepository(db),
	}

	env.unlock = NewUnlockService(env.planetRepo, env.levelRepo, env.progressRepo, nil)
	env.progress = NewProgressService(env.exerciseRepo, env.attemptRepo, env.progressRepo, env.levelRepo, env.planetRepo, env.userRepo, env.unlock, db)
	env.achievement = NewAchievementService(env.achievementRepo, db)

	if err := env.achievement.Seed(); err != nil {
		t.Fatalf("seed achievements: %v", err)
	}
	return env
}

func (e *testEnv) createUser(t *testing.T, name string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hashed",
		Role:     model.Student,
	}
	if err := e.userRepo.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (e *testEnv) createPlanet(t *testing.T, title string, order int) *model.Planet {
	t.Helper()
	planet := &model.Planet{Title: title, OrderIndex: order, IsActive: true}
	if err := e.db.Create(planet).Error; err != nil {
		t.Fatalf("create planet: %v", err)
	}
	return planet
}

func (e *testEnv) createLevel(t *testing.T, planetID uint, title string, order int) *model.Level {
	t.Helper()
	level := &model.Level{PlanetID: planetID, Title: title, OrderIndex: order, IsActive: true}
	if err := e.db.Create(level).Error; err != nil {
		t.Fatalf("create level: %v", err)
	}
	return level
}

func (e *testEnv) createExercise(t *testing.T, levelID uint, question, answer string, points, timeLimit int) *model.Exercise {
	t.Helper()
	exercise := &model.Exercise{
		LevelID:       levelID,
		Question:      question,
		Type:          model.ExerciseTypeMultipleChoice,
		Points:        points,
		TimeLimit:     timeLimit,
		CorrectAnswer: answer,
		IsActive:      true,
	}
	if err := e.db.Create(exercise).Error; err != nil {
		t.Fatalf("create exercise: %v", err)
	}
	return exercise
}

func (e *testEnv) markCompleted(t *testing.T, userID, levelID uint) {
	t.Helper()
	progress := &model.StudentProgress{
		UserID:               userID,
		LevelID:              levelID,
		AnsweredCount:        1,
		CompletionPercentage: 100,
		IsCompleted:          true,
	}
	if err := e.progressRepo.Create(progress); err != nil {
		t.Fatalf("create progress: %v", err)
	}
}
