package models

import "time"

type Review struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	TitleID  int64  `json:"title_id" gorm:"not null;index;uniqueIndex:idx_reviews_title_author"`
	AuthorID string `json:"author_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_reviews_title_author"`
	Text     string `json:"text" gorm:"not null;type:text"`
	Score    int    `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`
	// PubDate is set once at creation and never updated.
	PubDate   time.Time `json:"pub_date" gorm:"column:pub_date;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Author User  `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Title  Title `json:"title,omitempty" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
