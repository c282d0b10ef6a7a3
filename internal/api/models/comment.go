package models

import "time"

type Comment struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	ReviewID int64  `json:"review_id" gorm:"not null;index"`
	AuthorID string `json:"author_id" gorm:"type:uuid;not null;index"`
	Text     string `json:"text" gorm:"not null;type:text"`
	// PubDate is set once at creation and never updated.
	PubDate   time.Time `json:"pub_date" gorm:"column:pub_date;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Author User   `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Review Review `json:"review,omitempty" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE;"`
}

func (Comment) TableName() string {
	return "comments"
}
