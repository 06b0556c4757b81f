package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/waste3d/coursemarket-api/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errAlreadyProcessed = errors.New("payment already processed")
	errDuplicatePayment = errors.New("payment inserted concurrently")
)

// EnrollmentRepository выдает доступ к курсу после подтвержденной оплаты.
// Платеж, подписка и пустой прогресс пишутся в одной транзакции.
type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) Grant(ctx context.Context, payment *domain.Payment) (domain.GrantOutcome, error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Повтор payment_id - no-op только для той же пары (user, course)
		var existing domain.Payment
		err := tx.Where("payment_id = ?", payment.PaymentID).Take(&existing).Error
		if err == nil {
			return sameEnrollment(&existing, payment)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 2. Аудит платежа
		if err := tx.Create(payment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errDuplicatePayment
			}
			return err
		}

		// 3. Пользователь и курс должны существовать
		var user domain.User
		if err := tx.Select("id").First(&user, "id = ?", payment.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %s: %w", payment.UserID, domain.ErrNotFound)
			}
			return err
		}
		var course domain.Course
		if err := tx.Select("id").First(&course, "id = ?", payment.CourseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("course %s: %w", payment.CourseID, domain.ErrNotFound)
			}
			return err
		}

		// 4-5. Подписка + прогресс
		if err := ensureEntitlement(tx, user.ID, course.ID); err != nil {
			return err
		}
		return tx.Model(&domain.User{}).Where("id = ?", user.ID).Update("updated_at", time.Now()).Error
	})

	// параллельная транзакция успела вставить тот же payment_id.
	// Наша откатилась, сверяемся с уже закоммиченной записью.
	if errors.Is(err, errDuplicatePayment) {
		var existing domain.Payment
		if lookupErr := r.db.WithContext(ctx).Where("payment_id = ?", payment.PaymentID).Take(&existing).Error; lookupErr != nil {
			return domain.GrantApplied, fmt.Errorf("load concurrent payment %s: %w", payment.PaymentID, lookupErr)
		}
		err = sameEnrollment(&existing, payment)
	}

	if errors.Is(err, errAlreadyProcessed) {
		return domain.GrantAlreadyProcessed, nil
	}
	if err != nil {
		return domain.GrantApplied, err
	}
	return domain.GrantApplied, nil
}

func sameEnrollment(existing, incoming *domain.Payment) error {
	if existing.UserID == incoming.UserID && existing.CourseID == incoming.CourseID {
		return errAlreadyProcessed
	}
	return fmt.Errorf("payment %s already granted course %s to user %s: %w",
		existing.PaymentID, existing.CourseID, existing.UserID, domain.ErrAuthenticity)
}

// FindUnreconciled возвращает платежи, для которых нет подписки или записи прогресса
func (r *EnrollmentRepository) FindUnreconciled(ctx context.Context) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Joins("LEFT JOIN user_subscriptions us ON us.user_id = payments.user_id AND us.course_id = payments.course_id").
		Joins("LEFT JOIN progress pr ON pr.user_id = payments.user_id AND pr.course_id = payments.course_id").
		Where("us.user_id IS NULL OR pr.id IS NULL").
		Order("payments.created_at asc").
		Find(&payments).Error
	return payments, err
}

// Repair доводит выдачу доступа до конца. Идемпотентно.
func (r *EnrollmentRepository) Repair(ctx context.Context, userID, courseID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ensureEntitlement(tx, userID, courseID)
	})
}

func ensureEntitlement(tx *gorm.DB, userID, courseID uuid.UUID) error {
	sub := domain.CourseSubscription{UserID: userID, CourseID: courseID, CreatedAt: time.Now()}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&sub).Error; err != nil {
		return err
	}

	progress := domain.NewProgress(userID, courseID)
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(progress).Error
}
