package usecase

import (
	"context"

	"github.com/waste3d/coursemarket-api/internal/domain"

	"github.com/google/uuid"
)

type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type CourseStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Course, error)
	ListLectures(ctx context.Context, courseID uuid.UUID) ([]domain.Lecture, error)
	GetLecture(ctx context.Context, id uuid.UUID) (*domain.Lecture, error)
}

type LectureCounter interface {
	CountLectures(ctx context.Context, courseID uuid.UUID) (int64, error)
}

type LectureLookup interface {
	GetLecture(ctx context.Context, id uuid.UUID) (*domain.Lecture, error)
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
}

type PaymentVerifier interface {
	Verify(orderID, paymentID, signature string) bool
}

type EnrollmentStore interface {
	Grant(ctx context.Context, payment *domain.Payment) (domain.GrantOutcome, error)
	FindUnreconciled(ctx context.Context) ([]domain.Payment, error)
	Repair(ctx context.Context, userID, courseID uuid.UUID) error
}

type ProgressStore interface {
	Get(ctx context.Context, userID, courseID uuid.UUID) (*domain.Progress, error)
	AppendLecture(ctx context.Context, userID, courseID uuid.UUID, lectureID string) (bool, error)
}

type EventPublisher interface {
	PublishCoursePurchased(ctx context.Context, evt domain.CoursePurchased) error
}
