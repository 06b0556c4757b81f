package usecase

import (
	"context"
	"fmt"

	"github.com/waste3d/coursemarket-api/internal/domain"

	"github.com/google/uuid"
)

const MsgNotSubscribed = "You have not subscribed to this course"

// CatalogUseCase - чтение каталога и проверка доступа к лекциям
type CatalogUseCase struct {
	users   UserStore
	courses CourseStore
}

func NewCatalogUseCase(us UserStore, cs CourseStore) *CatalogUseCase {
	return &CatalogUseCase{users: us, courses: cs}
}

func (uc *CatalogUseCase) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return uc.courses.List(ctx)
}

func (uc *CatalogUseCase) GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	course, err := uc.courses.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, MsgCourseNotFound)
	}
	return course, nil
}

func (uc *CatalogUseCase) MyCourses(ctx context.Context, userID uuid.UUID) ([]domain.Course, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, MsgUserNotFound)
	}
	return uc.courses.ListByIDs(ctx, user.CourseIDs())
}

// CourseLectures отдает лекции курса. Админ видит все, студент - только купленные курсы.
func (uc *CatalogUseCase) CourseLectures(ctx context.Context, userID, courseID uuid.UUID) ([]domain.Lecture, error) {
	if err := uc.checkAccess(ctx, userID, courseID); err != nil {
		return nil, err
	}
	lectures, err := uc.courses.ListLectures(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list lectures: %w", err)
	}
	return lectures, nil
}

func (uc *CatalogUseCase) Lecture(ctx context.Context, userID, lectureID uuid.UUID) (*domain.Lecture, error) {
	lecture, err := uc.courses.GetLecture(ctx, lectureID)
	if err != nil {
		return nil, notFoundAs(err, "Lecture not found")
	}
	if err := uc.checkAccess(ctx, userID, lecture.CourseID); err != nil {
		return nil, err
	}
	return lecture, nil
}

func (uc *CatalogUseCase) checkAccess(ctx context.Context, userID, courseID uuid.UUID) error {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return notFoundAs(err, MsgUserNotFound)
	}
	if user.IsAdmin() || user.HasCourse(courseID) {
		return nil
	}
	return domain.NewError(domain.ErrForbidden, MsgNotSubscribed)
}
