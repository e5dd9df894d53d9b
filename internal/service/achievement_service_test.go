package service

import (
	"testing"

	"astro_learn_backend/internal/model"
)

func TestSeedIsIdempotent(t *testing.T) {
	env := newTestEnv(t) // newTestEnv 已经 Seed 过一次

	if err := env.achievement.Seed(); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var count int64
	if err := env.db.Model(&model.Achievement{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("achievement count = %d, want 3", count)
	}
}

func TestSeedKeepsOperatorEdits(t *testing.T) {
	env := newTestEnv(t)

	if err := env.db.Model(&model.Achievement{}).
		Where("code = ?", model.AchievementLevelCompleted).
		Update("points", 99).Error; err != nil {
		t.Fatalf("edit: %v", err)
	}

	if err := env.achievement.Seed(); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	achievement, err := env.achievementRepo.FindByCode(model.AchievementLevelCompleted)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if achievement.Points != 99 {
		t.Fatalf("points = %d, reseed must not overwrite", achievement.Points)
	}
}

func TestEvaluateOnLevelCompletionIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "lena")
	planet := env.createPlanet(t, "Io", 1)
	level := env.createLevel(t, planet.ID, "I1", 1)
	env.createExercise(t, level.ID, "q1", "a", 10, 0)

	progress := &model.StudentProgress{
		UserID:               user.ID,
		LevelID:              level.ID,
		AnsweredCount:        1,
		CorrectCount:         1,
		CompletionPercentage: 100,
		IsCompleted:          true,
	}
	if err := env.progressRepo.Create(progress); err != nil {
		t.Fatalf("create progress: %v", err)
	}

	grants, err := EvaluateOnLevelCompletion(env.db, user.ID, level, progress, 1)
	if err != nil {
		t.Fatalf("first evaluation: %v", err)
	}
	if len(grants) != 3 {
		t.Fatalf("grants = %d, want 3", len(grants))
	}

	grants, err = EvaluateOnLevelCompletion(env.db, user.ID, level, progress, 1)
	if err != nil {
		t.Fatalf("second evaluation: %v", err)
	}
	if len(grants) != 0 {
		t.Fatalf("re-evaluation granted %d achievements, want 0", len(grants))
	}
}

func TestInactiveAchievementNotGranted(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "mike")
	planet := env.createPlanet(t, "Europa", 1)
	level := env.createLevel(t, planet.ID, "E1", 1)
	env.createLevel(t, planet.ID, "E2", 2)

	if err := env.db.Model(&model.Achievement{}).
		Where("code = ?", model.AchievementLevelCompleted).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	progress := &model.StudentProgress{
		UserID:               user.ID,
		LevelID:              level.ID,
		AnsweredCount:        1,
		CorrectCount:         0,
		CompletionPercentage: 100,
		IsCompleted:          true,
	}
	if err := env.progressRepo.Create(progress); err != nil {
		t.Fatalf("create progress: %v", err)
	}

	grants, err := EvaluateOnLevelCompletion(env.db, user.ID, level, progress, 1)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(grants) != 0 {
		t.Fatalf("grants = %v, inactive achievement must be skipped", grants)
	}
}

func TestGetUserAchievementsView(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "nora")
	planet := env.createPlanet(t, "Titan", 1)
	level := env.createLevel(t, planet.ID, "T1", 1)
	env.createLevel(t, planet.ID, "T2", 2)

	progress := &model.StudentProgress{
		UserID:               user.ID,
		LevelID:              level.ID,
		AnsweredCount:        2,
		CorrectCount:         1,
		CompletionPercentage: 100,
		IsCompleted:          true,
	}
	if err := env.progressRepo.Create(progress); err != nil {
		t.Fatalf("create progress: %v", err)
	}
	if _, err := EvaluateOnLevelCompletion(env.db, user.ID, level, progress, 2); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	views, err := env.achievement.GetUserAchievements(user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("views = %d, want 1", len(views))
	}
	if views[0].Code != model.AchievementLevelCompleted || views[0].LevelID != level.ID {
		t.Fatalf("view = %+v", views[0])
	}
}
