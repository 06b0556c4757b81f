package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Username string    `json:"name"`
	Role     string    `gorm:"default:'student'" json:"role"`

	// Курсы, к которым у пользователя есть доступ. PK (user_id, course_id) не дает задублировать
	Subscription []CourseSubscription `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CourseSubscription struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
}

func (CourseSubscription) TableName() string {
	return "user_subscriptions"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasCourse(courseID uuid.UUID) bool {
	for _, s := range u.Subscription {
		if s.CourseID == courseID {
			return true
		}
	}
	return false
}

func (u *User) CourseIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(u.Subscription))
	for _, s := range u.Subscription {
		ids = append(ids, s.CourseID)
	}
	return ids
}
