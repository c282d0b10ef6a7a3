package models

import "time"

type Title struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name" gorm:"size:256;not null"`
	Description string  `json:"description,omitempty" gorm:"type:text"`
	Year        int     `json:"year" gorm:"not null"`
	CategoryID  *int64  `json:"-" gorm:"index"`
	// Rating is derived from review scores and owned by the rating engine.
	// NULL means the title has no reviews yet - it is never written as zero
	// and never accepted from a client payload.
	Rating    *int      `json:"rating" gorm:"check:rating >= 1 AND rating <= 10"`
	CreatedAt time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at,omitempty" gorm:"autoUpdateTime"`

	// Associations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Genres   []Genre   `json:"genres,omitempty" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`
}

func (Title) TableName() string {
	return "titles"
}
