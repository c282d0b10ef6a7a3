package models

type Category struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"size:256;not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;size:50;not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`
}

func (Category) TableName() string {
	return "categories"
}
