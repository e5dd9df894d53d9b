package service

import (
	"context"
	"errors"
	"testing"

	"astro_learn_backend/internal/model"
	"astro_learn_backend/internal/util"
)

func TestSubmitExerciseCorrect(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	planet := env.createPlanet(t, "Mercury", 1)
	level := env.createLevel(t, planet.ID, "Orbit 1", 1)
	ex1 := env.createExercise(t, level.ID, "1+1", "2", 10, 0)
	env.createExercise(t, level.ID, "2+2", "4", 10, 0)

	resp, err := env.progress.SubmitExercise(context.Background(), user.ID, ex1.ID, SubmitExerciseRequest{
		Answer:    "2",
		TimeTaken: 5,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !resp.Result.IsCorrect || resp.Result.Score != 10 {
		t.Fatalf("result = %+v, want correct score 10", resp.Result)
	}
	if resp.Progress.AnsweredCount != 1 || resp.Progress.CorrectCount != 1 {
		t.Fatalf("progress counters = %d/%d, want 1/1", resp.Progress.AnsweredCount, resp.Progress.CorrectCount)
	}
	if resp.Progress.CompletionPercentage != 50 {
		t.Fatalf("completion = %v, want 50", resp.Progress.CompletionPercentage)
	}
	if resp.Progress.IsCompleted || resp.LevelCompleted {
		t.Fatal("level must not be completed after answering one of two")
	}
}

func TestSubmitExerciseDuplicateLeavesStateUnchanged(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "bob")
	planet := env.createPlanet(t, "Venus", 1)
	level := env.createLevel(t, planet.ID, "Orbit 1", 1)
	ex := env.createExercise(t, level.ID, "1+1", "2", 10, 0)
	env.createExercise(t, level.ID, "2+2", "4", 10, 0)

	if _, err := env.progress.SubmitExercise(context.Background(), user.ID, ex.ID, SubmitExerciseRequest{Answer: "2"}); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err := env.progress.SubmitExercise(context.Background(), user.ID, ex.ID, SubmitExerciseRequest{Answer: "wrong"})
	if !errors.Is(err, util.ErrAlreadySubmitted) {
		t.Fatalf("second submit err = %v, want ErrAlreadySubmitted", err)
	}

	progress, err := env.progressRepo.FindByUserAndLevel(user.ID, level.ID)
	if err != nil {
		t.Fatalf("reload progress: %v", err)
	}
	if progress.AnsweredCount != 1 || progress.Score != 10 {
		t.Fatalf("state changed by duplicate: answered=%d score=%d", progress.AnsweredCount, progress.Score)
	}
}

func TestSubmitExerciseCompletionRequiresAnsweringNotCorrectness(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "carol")
	planet := env.createPlanet(t, "Earth", 1)
	level := env.createLevel(t, planet.ID, "Orbit 1", 1)
	ex1 := env.createExercise(t, level.ID, "q1", "a", 10, 0)
	ex2 := env.createExercise(t, level.ID, "q2", "a", 10, 0)

	if _, err := env.progress.SubmitExercise(context.Background(), user.ID, ex1.ID, SubmitExerciseRequest{Answer: "a"}); err != nil {
		t.Fatalf("submit 1: %v", err)
	}
	resp, err := env.progress.SubmitExercise(context.Background(), user.ID, ex2.ID, SubmitExerciseRequest{Answer: "wrong"})
	if err != nil {
		t.Fatalf("submit 2: %v", err)
	}

	if !resp.LevelCompleted || !resp.Progress.IsCompleted {
		t.Fatal("answering all exercises must complete the level even with wrong answers")
	}
	if resp.Progress.CompletionPercentage != 100 {
		t.Fatalf("completion = %v, want 100", resp.Progress.CompletionPercentage)
	}
	if resp.Progress.CorrectCount != 1 {
		t.Fatalf("correct count = %d, want 1", resp.Progress.CorrectCount)
	}

	// 有错题：完成成就有，完美成就没有
	codes := grantCodes(resp.NewGrants)
	if !codes[model.AchievementLevelCompleted] {
		t.Fatal("expected LEVEL_COMPLETED grant")
	}
	if codes[model.AchievementPerfectLevel] {
		t.Fatal("PERFECT_LEVEL must not be granted with wrong answers")
	}
}

func TestSubmitExercisePerfectLevel(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "dave")
	planet := env.createPlanet(t, "Mars", 1)
	level := env.createLevel(t, planet.ID, "Orbit 1", 1)
	env.createLevel(t, planet.ID, "Orbit 2", 2)
	ex1 := env.createExercise(t, level.ID, "q1", "a", 10, 0)
	ex2 := env.createExercise(t, level.ID, "q2", "b", 10, 0)

	if _, err := env.progress.SubmitExercise(context.Background(), user.ID, ex1.ID, SubmitExerciseRequest{Answer: "a"}); err != nil {
		t.Fatalf("submit 1: %v", err)
	}
	resp, err := env.progress.SubmitExercise(context.Background(), user.ID, ex2.ID, SubmitExerciseRequest{Answer: "b"})
	if err != nil {
		t.Fatalf("submit 2: %v", err)
	}

	codes := grantCodes(resp.NewGrants)
	if !codes[model.AchievementLevelCompleted] || !codes[model.AchievementPerfectLevel] {
		t.Fatalf("grants = %v, want level + perfect", codes)
	}
	// 星球还有第二关未完成
	if codes[model.AchievementPlanetCompleted] {
		t.Fatal("PLANET_COMPLETED must wait for all levels")
	}

	// 成就积分记入用户 XP: 10 + 25
	reloaded, err := env.userRepo.FindByID(user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.XP != 35 {
		t.Fatalf("xp = %d, want 35", reloaded.XP)
	}
}

func TestSubmitExercisePlanetCompleted(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "erin")
	planet := env.createPlanet(t, "Jupiter", 1)
	level := env.createLevel(t, planet.ID, "Only orbit", 1)
	ex := env.createExercise(t, level.ID, "q1", "a", 10, 0)

	resp, err := env.progress.SubmitExercise(context.Background(), user.ID, ex.ID, SubmitExerciseRequest{Answer: "a"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	codes := grantCodes(resp.NewGrants)
	for _, want := range []string{model.AchievementLevelCompleted, model.AchievementPerfectLevel, model.AchievementPlanetCompleted} {
		if !codes[want] {
			t.Fatalf("missing grant %s, got %v", want, codes)
		}
	}
}

func TestSubmitExerciseValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "frank")
	planet := env.createPlanet(t, "Saturn", 1)
	level := env.createLevel(t, planet.ID, "Orbit 1", 1)
	ex := env.createExercise(t, level.ID, "q1", "a", 10, 0)

	if _, err := env.progress.SubmitExercise(context.Background(), user.ID, ex.ID, SubmitExerciseRequest{Answer: "   "}); !errors.Is(err, util.ErrInvalidAnswer) {
		t.Fatalf("blank answer err = %v, want ErrInvalidAnswer", err)
	}
	if _, err := env.progress.SubmitExercise(context.Background(), user.ID, 9999, SubmitExerciseRequest{Answer: "a"}); !errors.Is(err, util.ErrExerciseNotFound) {
		t.Fatalf("unknown exercise err = %v, want ErrExerciseNotFound", err)
	}
	if _, err := env.progress.SubmitExercise(context.Background(), 9999, ex.ID, SubmitExerciseRequest{Answer: "a"}); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("unknown user err = %v, want ErrUserNotFound", err)
	}
}

func TestGetUserStatsAndRanking(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "gina")
	bob := env.createUser(t, "henry")
	planet := env.createPlanet(t, "Uranus", 1)
	level := env.createLevel(t, planet.ID, "Orbit 1", 1)
	ex := env.createExercise(t, level.ID, "q1", "a", 10, 20)

	if _, err := env.progress.SubmitExercise(context.Background(), alice.ID, ex.ID, SubmitExerciseRequest{Answer: "a", TimeTaken: 5}); err != nil {
		t.Fatalf("alice submit: %v", err)
	}
	if _, err := env.progress.SubmitExercise(context.Background(), bob.ID, ex.ID, SubmitExerciseRequest{Answer: "wrong", TimeTaken: 5}); err != nil {
		t.Fatalf("bob submit: %v", err)
	}

	stats, err := env.progress.GetUserStats(alice.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.LevelsStarted != 1 || stats.LevelsCompleted != 1 || stats.PlanetsAccessed != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	ranking, err := env.progress.GetLevelRanking(level.ID, 10)
	if err != nil {
		t.Fatalf("ranking: %v", err)
	}
	if len(ranking) != 2 {
		t.Fatalf("ranking size = %d, want 2", len(ranking))
	}
	if ranking[0].UserID != alice.ID {
		t.Fatalf("ranking leader = %d, want %d", ranking[0].UserID, alice.ID)
	}
	if ranking[0].Score <= ranking[1].Score {
		t.Fatalf("ranking not ordered by score: %d vs %d", ranking[0].Score, ranking[1].Score)
	}
}

func grantCodes(grants []model.GrantView) map[string]bool {
	codes := make(map[string]bool, len(grants))
	for _, g := range grants {
		codes[g.Code] = true
	}
	return codes
}
