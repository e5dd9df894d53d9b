package model

import "time"

// StudentProgress 每 (user, level) 一条的进度聚合记录。
// IsCompleted 单调：一旦为 true 不再回退；CompletedAt 仅在首次完成时写入。
// swagger:model StudentProgress
type StudentProgress struct {
	BaseModel
	UserID               uint       `gorm:"uniqueIndex:idx_progress_user_level;type:bigint unsigned;not null" json:"userId"`
	LevelID              uint       `gorm:"uniqueIndex:idx_progress_user_level;type:bigint unsigned;not null" json:"levelId"`
	AnsweredCount        int        `gorm:"default:0" json:"answeredCount"`
	CorrectCount         int        `gorm:"default:0" json:"correctCount"`
	Score                int        `gorm:"default:0" json:"score"`
	TimeSpent            int        `gorm:"default:0" json:"timeSpent"` // 秒
	CompletionPercentage float64    `gorm:"default:0" json:"completionPercentage"`
	IsCompleted          bool       `gorm:"default:false" json:"isCompleted"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
	LastAccessed         time.Time  `json:"lastAccessed"`
}

func (StudentProgress) TableName() string {
	return "student_progress"
}
