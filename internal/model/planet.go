package model

// Planet 顶层学习单元，按 OrderIndex 全局排序
// swagger:model Planet
type Planet struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	CoverURL    string `gorm:"size:255" json:"coverUrl"`
	OrderIndex  int    `gorm:"index;not null" json:"orderIndex"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`
}

func (Planet) TableName() string {
	return "planets"
}
