package service

import (
	"context"
	"errors"
	"testing"

	"astro_learn_backend/internal/config"
	"astro_learn_backend/internal/util"
)

func newExerciseTestService(env *testEnv) *ExerciseService {
	cfg := &config.Config{}
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = "./uploads"
	storage := NewStorageService(cfg)
	return NewExerciseService(env.exerciseRepo, env.attemptRepo, env.levelRepo, env.unlock, storage)
}

func TestListByLevelRejectsLockedLevel(t *testing.T) {
	env := newTestEnv(t)
	svc := newExerciseTestService(env)
	user := env.createUser(t, "rosa")

	planet := env.createPlanet(t, "Callisto", 1)
	env.createLevel(t, planet.ID, "C1", 1)
	locked := env.createLevel(t, planet.ID, "C2", 2)
	env.createExercise(t, locked.ID, "q", "a", 10, 0)

	_, err := svc.ListByLevel(context.Background(), user.ID, locked.ID)
	if !errors.Is(err, util.ErrLevelLocked) {
		t.Fatalf("err = %v, want ErrLevelLocked", err)
	}
}

func TestListByLevelMarksAttempted(t *testing.T) {
	env := newTestEnv(t)
	svc := newExerciseTestService(env)
	user := env.createUser(t, "sam")

	planet := env.createPlanet(t, "Ganymede", 1)
	level := env.createLevel(t, planet.ID, "G1", 1)
	ex1 := env.createExercise(t, level.ID, "q1", "a", 10, 0)
	env.createExercise(t, level.ID, "q2", "b", 10, 0)

	if _, err := env.progress.SubmitExercise(context.Background(), user.ID, ex1.ID, SubmitExerciseRequest{Answer: "a"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	views, err := svc.ListByLevel(context.Background(), user.ID, level.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("views = %d, want 2", len(views))
	}
	if !views[0].Attempted || views[1].Attempted {
		t.Fatalf("attempted flags = %v/%v, want true/false", views[0].Attempted, views[1].Attempted)
	}
}

func TestListByLevelUnknownLevel(t *testing.T) {
	env := newTestEnv(t)
	svc := newExerciseTestService(env)
	user := env.createUser(t, "tess")

	_, err := svc.ListByLevel(context.Background(), user.ID, 12345)
	if !errors.Is(err, util.ErrLevelNotFound) {
		t.Fatalf("err = %v, want ErrLevelNotFound", err)
	}
}
