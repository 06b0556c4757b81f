package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Progress существует тогда и только тогда, когда курс есть в подписке пользователя.
type Progress struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"_id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_course" json:"user"`
	CourseID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_course" json:"course"`
	CompletedLectures pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"completedLectures"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

func (Progress) TableName() string {
	return "progress"
}

func NewProgress(userID, courseID uuid.UUID) *Progress {
	return &Progress{
		ID:                uuid.New(),
		UserID:            userID,
		CourseID:          courseID,
		CompletedLectures: pq.StringArray{},
	}
}

func (p *Progress) HasLecture(lectureID string) bool {
	return slices.Contains(p.CompletedLectures, lectureID)
}

type ProgressReport struct {
	Percentage float64
	Completed  int
	Total      int64
	Progress   *Progress
}

// Percentage считает процент прохождения. Для курса без лекций - 0, а не деление на ноль.
func Percentage(completed int, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) * 100 / float64(total)
}
