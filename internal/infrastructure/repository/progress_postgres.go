package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/waste3d/coursemarket-api/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Get ищет единственную запись по (user, course). Уникальность держит индекс idx_progress_user_course.
func (r *ProgressRepository) Get(ctx context.Context, userID, courseID uuid.UUID) (*domain.Progress, error) {
	var progress domain.Progress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("progress %s/%s: %w", userID, courseID, domain.ErrNotFound)
		}
		return nil, err
	}
	return &progress, nil
}

// AppendLecture атомарно дописывает лекцию одним UPDATE.
// false - лекция уже была в списке (или записи нет).
func (r *ProgressRepository) AppendLecture(ctx context.Context, userID, courseID uuid.UUID, lectureID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Progress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Where("NOT (? = ANY(completed_lectures))", lectureID).
		Updates(map[string]interface{}{
			"completed_lectures": gorm.Expr("array_append(completed_lectures, ?)", lectureID),
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
