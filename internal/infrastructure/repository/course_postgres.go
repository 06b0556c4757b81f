package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/waste3d/coursemarket-api/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseRepository - read-only доступ к каталогу
type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Course, error) {
	if len(ids) == 0 {
		return []domain.Course{}, nil
	}
	var courses []domain.Course
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) ListLectures(ctx context.Context, courseID uuid.UUID) ([]domain.Lecture, error) {
	var lectures []domain.Lecture
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("\"order\" asc").
		Find(&lectures).Error
	return lectures, err
}

func (r *CourseRepository) GetLecture(ctx context.Context, id uuid.UUID) (*domain.Lecture, error) {
	var lecture domain.Lecture
	err := r.db.WithContext(ctx).First(&lecture, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lecture %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &lecture, nil
}

func (r *CourseRepository) CountLectures(ctx context.Context, courseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Lecture{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}
