package service

import (
	"math"
	"strings"

	"astro_learn_backend/internal/model"
)

// SubmissionResult 单次判题的纯计算结果
type SubmissionResult struct {
	IsCorrect   bool   `json:"isCorrect"`
	Score       int    `json:"score"`
	BasePoints  int    `json:"basePoints"`
	TimeBonus   int    `json:"timeBonus"`
	Explanation string `json:"explanation,omitempty"`
}

// NormalizeAnswer 统一为去首尾空白后的小写串。
// 所有题型（含 numeric）都走字符串等值比较，"0.50" 与 "0.5" 视为不同答案。
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// EvaluateExercise 纯函数判题：正确得 basePoints 加时间奖励，错误得 0 分。
// 时间奖励只在题目限时且用时小于限时的情况下生效，
// bonus = round((limit-taken)/limit * points * 0.5)，四舍五入远离零。
func EvaluateExercise(exercise *model.Exercise, answer string, timeTaken int) SubmissionResult {
	result := SubmissionResult{
		BasePoints:  exercise.Points,
		Explanation: exercise.Explanation,
	}

	if NormalizeAnswer(answer) != NormalizeAnswer(exercise.CorrectAnswer) {
		return result
	}

	result.IsCorrect = true
	result.Score = exercise.Points

	if exercise.TimeLimit > 0 && timeTaken >= 0 && timeTaken < exercise.TimeLimit {
		remaining := float64(exercise.TimeLimit-timeTaken) / float64(exercise.TimeLimit)
		bonus := int(math.Round(remaining * float64(exercise.Points) * 0.5))
		if bonus > 0 {
			result.TimeBonus = bonus
			result.Score += bonus
		}
	}

	return result
}
