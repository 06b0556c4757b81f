package domain

import (
	"time"

	"github.com/google/uuid"
)

// Course и Lecture принадлежат каталогу, сервис их только читает
type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Title       string    `gorm:"index" json:"title"`
	Description string    `json:"description"`
	Category    string    `gorm:"index" json:"category"`
	CreatedBy   string    `json:"createdBy"`
	Duration    int       `json:"duration"`
	Image       string    `json:"image"`
	Price       int       `gorm:"not null" json:"price"` // в основных единицах валюты

	Lectures []Lecture `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

type Lecture struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	CourseID    uuid.UUID `gorm:"type:uuid;index;not null" json:"course"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Video       string    `json:"video"`
	Order       int       `json:"order"`

	CreatedAt time.Time `json:"createdAt"`
}
