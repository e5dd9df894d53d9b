package model

import "time"

// 查询侧 DTO，由 repository 层的 join 查询直接 Scan 填充

type ProgressRow struct {
	ID                   uint       `json:"id"`
	UserID               uint       `json:"userId"`
	LevelID              uint       `json:"levelId"`
	LevelTitle           string     `json:"levelTitle"`
	LevelOrder           int        `json:"levelOrder"`
	PlanetID             uint       `json:"planetId"`
	PlanetTitle          string     `json:"planetTitle"`
	AnsweredCount        int        `json:"answeredCount"`
	CorrectCount         int        `json:"correctCount"`
	Score                int        `json:"score"`
	TimeSpent            int        `json:"timeSpent"`
	CompletionPercentage float64    `json:"completionPercentage"`
	IsCompleted          bool       `json:"isCompleted"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
}

type UserStats struct {
	LevelsStarted   int     `json:"levelsStarted"`
	LevelsCompleted int     `json:"levelsCompleted"`
	AverageScore    float64 `json:"averageScore"`
	TotalTimeSpent  int     `json:"totalTimeSpent"`
	PlanetsAccessed int     `json:"planetsAccessed"`
}

type RankingEntry struct {
	UserID               uint    `json:"userId"`
	UserName             string  `json:"userName"`
	LevelID              uint    `json:"levelId"`
	Score                int     `json:"score"`
	CompletionPercentage float64 `json:"completionPercentage"`
	TimeSpent            int     `json:"timeSpent"`
	IsCompleted          bool    `json:"isCompleted"`
}

type LevelUnlockView struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"orderIndex"`
	Unlocked    bool   `json:"unlocked"`
	Completed   bool   `json:"completed"`
}

type PlanetUnlockView struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	CoverURL    string            `json:"coverUrl,omitempty"`
	OrderIndex  int               `json:"orderIndex"`
	Levels      []LevelUnlockView `json:"levels"`
}

type GrantView struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	Icon        string    `json:"icon"`
	LevelID     uint      `json:"levelId,omitempty"`
	PlanetID    uint      `json:"planetId,omitempty"`
	AwardedAt   time.Time `json:"awardedAt"`
}
