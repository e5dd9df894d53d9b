package service

import (
	"testing"

	"astro_learn_backend/internal/model"
)

func TestNormalizeAnswer(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Paris  ", "paris"},
		{"TRUE", "true"},
		{"42", "42"},
		{"", ""},
		{"\tB\n", "b"},
	}
	for _, c := range cases {
		if got := NormalizeAnswer(c.in); got != c.want {
			t.Fatalf("NormalizeAnswer(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeAnswerNumericIsTextual(t *testing.T) {
	// numeric 题型同样走字符串比较，不做数值等价
	exercise := &model.Exercise{
		Type:          model.ExerciseTypeNumeric,
		Points:        10,
		CorrectAnswer: "0.5",
	}
	if got := EvaluateExercise(exercise, "0.50", 0); got.IsCorrect {
		t.Fatalf("expected 0.50 to mismatch 0.5, got correct with score %d", got.Score)
	}
	if got := EvaluateExercise(exercise, " 0.5 ", 0); !got.IsCorrect {
		t.Fatal("expected trimmed 0.5 to match")
	}
}

func TestEvaluateExerciseTimeBonus(t *testing.T) {
	exercise := &model.Exercise{
		Points:        10,
		TimeLimit:     30,
		CorrectAnswer: "b",
	}

	// 一半时间内答对：bonus = round(15/30 * 10 * 0.5) = round(2.5) = 3
	result := EvaluateExercise(exercise, "B", 15)
	if !result.IsCorrect {
		t.Fatal("expected correct")
	}
	if result.TimeBonus != 3 {
		t.Fatalf("time bonus = %d, want 3", result.TimeBonus)
	}
	if result.Score != 13 {
		t.Fatalf("score = %d, want 13", result.Score)
	}
}

func TestEvaluateExerciseNoBonusAtLimit(t *testing.T) {
	exercise := &model.Exercise{
		Points:        10,
		TimeLimit:     30,
		CorrectAnswer: "b",
	}

	result := EvaluateExercise(exercise, "b", 30)
	if result.Score != 10 || result.TimeBonus != 0 {
		t.Fatalf("score = %d bonus = %d, want 10/0", result.Score, result.TimeBonus)
	}

	result = EvaluateExercise(exercise, "b", 45)
	if result.Score != 10 || result.TimeBonus != 0 {
		t.Fatalf("over limit score = %d bonus = %d, want 10/0", result.Score, result.TimeBonus)
	}
}

func TestEvaluateExerciseNoTimeLimit(t *testing.T) {
	exercise := &model.Exercise{
		Points:        20,
		TimeLimit:     0,
		CorrectAnswer: "true",
	}

	result := EvaluateExercise(exercise, "True", 1)
	if result.Score != 20 || result.TimeBonus != 0 {
		t.Fatalf("score = %d bonus = %d, want 20/0", result.Score, result.TimeBonus)
	}
}

func TestEvaluateExerciseIncorrect(t *testing.T) {
	exercise := &model.Exercise{
		Points:        10,
		TimeLimit:     30,
		CorrectAnswer: "a",
		Explanation:   "看第二章",
	}

	result := EvaluateExercise(exercise, "b", 5)
	if result.IsCorrect {
		t.Fatal("expected incorrect")
	}
	if result.Score != 0 || result.TimeBonus != 0 {
		t.Fatalf("score = %d bonus = %d, want 0/0", result.Score, result.TimeBonus)
	}
	if result.Explanation != "看第二章" {
		t.Fatalf("explanation = %q", result.Explanation)
	}
}

func TestEvaluateExerciseRoundsHalfUp(t *testing.T) {
	// round(2.5) 必须进到 3，不做银行家舍入
	exercise := &model.Exercise{
		Points:        5,
		TimeLimit:     10,
		CorrectAnswer: "x",
	}
	// (10-9)/10 * 5 * 0.5 = 0.25 -> 0
	result := EvaluateExercise(exercise, "x", 9)
	if result.TimeBonus != 0 {
		t.Fatalf("bonus = %d, want 0", result.TimeBonus)
	}
	// (10-5)/10 * 5 * 0.5 = 1.25 -> 1
	result = EvaluateExercise(exercise, "x", 5)
	if result.TimeBonus != 1 {
		t.Fatalf("bonus = %d, want 1", result.TimeBonus)
	}
	// (10-0)/10 * 5 * 0.5 = 2.5 -> 3
	result = EvaluateExercise(exercise, "x", 0)
	if result.TimeBonus != 3 {
		t.Fatalf("bonus = %d, want 3", result.TimeBonus)
	}
}
