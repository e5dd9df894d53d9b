package model

// Level 行星内的有序关卡，OrderIndex 在同一行星的激活关卡中唯一
// swagger:model Level
type Level struct {
	BaseModel
	PlanetID    uint   `gorm:"index;type:bigint unsigned;not null" json:"planetId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	OrderIndex  int    `gorm:"index;not null" json:"orderIndex"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`
}

func (Level) TableName() string {
	return "levels"
}
