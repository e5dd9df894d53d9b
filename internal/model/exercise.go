package model

const (
	ExerciseTypeMultipleChoice = "multiple_choice"
	ExerciseTypeTrueFalse      = "true_false"
	ExerciseTypeNumeric        = "numeric"
	ExerciseTypeImageChoice    = "image_choice"
)

const (
	ExerciseDifficultyEasy   = "easy"
	ExerciseDifficultyMedium = "medium"
	ExerciseDifficultyHard   = "hard"
)

// Exercise 题目定义，由内容端维护，引擎侧只读
// swagger:model Exercise
type Exercise struct {
	BaseModel
	LevelID       uint   `gorm:"index;type:bigint unsigned;not null" json:"levelId"`
	Question      string `gorm:"type:text;not null" json:"question"`
	Type          string `gorm:"size:30;not null" json:"type"`
	Difficulty    string `gorm:"size:10;default:'easy'" json:"difficulty"`
	Points        int    `gorm:"default:10" json:"points"`
	TimeLimit     int    `gorm:"default:0" json:"timeLimit"` // 秒，0 表示不限时
	OptionA       string `gorm:"size:255" json:"optionA"`
	OptionB       string `gorm:"size:255" json:"optionB"`
	OptionC       string `gorm:"size:255" json:"optionC"`
	OptionD       string `gorm:"size:255" json:"optionD"`
	CorrectAnswer string `gorm:"size:255;not null" json:"-"`
	Explanation   string `gorm:"type:text" json:"explanation"`
	ImageKey      string `gorm:"size:255" json:"-"` // image_choice 题图的对象存储 key
	IsActive      bool   `gorm:"default:true" json:"isActive"`
}

func (Exercise) TableName() string {
	return "exercises"
}
