package model

import "time"

// ExerciseAttempt 每 (user, exercise) 至多一条，唯一索引承载防重复约束
// swagger:model ExerciseAttempt
type ExerciseAttempt struct {
	BaseModel
	UserID      uint      `gorm:"uniqueIndex:idx_attempt_user_exercise;type:bigint unsigned;not null" json:"userId"`
	ExerciseID  uint      `gorm:"uniqueIndex:idx_attempt_user_exercise;type:bigint unsigned;not null" json:"exerciseId"`
	LevelID     uint      `gorm:"index;type:bigint unsigned;not null" json:"levelId"`
	Answer      string    `gorm:"size:255" json:"answer"`
	IsCorrect   bool      `gorm:"default:false" json:"isCorrect"`
	Score       int       `gorm:"default:0" json:"score"`
	TimeTaken   int       `gorm:"default:0" json:"timeTaken"` // 秒
	HintsUsed   int       `gorm:"default:0" json:"hintsUsed"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

func (ExerciseAttempt) TableName() string {
	return "exercise_attempts"
}
