package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/waste3d/coursemarket-api/internal/domain"

	"github.com/google/uuid"
)

// ReconcileUseCase чинит пользователей, у которых есть платеж, но нет подписки или прогресса
type ReconcileUseCase struct {
	users      UserStore
	enrollment EnrollmentStore
	logger     *slog.Logger
}

func NewReconcileUseCase(us UserStore, es EnrollmentStore, logger *slog.Logger) *ReconcileUseCase {
	return &ReconcileUseCase{users: us, enrollment: es, logger: logger}
}

// Run возвращает количество починенных пар (user, course)
func (uc *ReconcileUseCase) Run(ctx context.Context) (int, error) {
	payments, err := uc.enrollment.FindUnreconciled(ctx)
	if err != nil {
		return 0, fmt.Errorf("find unreconciled payments: %w", err)
	}

	type pair struct{ user, course uuid.UUID }
	seen := make(map[pair]bool)
	repaired := 0

	for _, p := range payments {
		key := pair{p.UserID, p.CourseID}
		if seen[key] {
			continue
		}
		seen[key] = true

		if err := uc.enrollment.Repair(ctx, p.UserID, p.CourseID); err != nil {
			return repaired, fmt.Errorf("repair %s/%s: %w", p.UserID, p.CourseID, err)
		}
		uc.logger.Info("entitlement repaired", "user_id", p.UserID, "course_id", p.CourseID, "payment_id", p.PaymentID)
		repaired++
	}
	return repaired, nil
}

// RunAs - ручной запуск, только для админа
func (uc *ReconcileUseCase) RunAs(ctx context.Context, userID uuid.UUID) (int, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return 0, notFoundAs(err, MsgUserNotFound)
	}
	if !user.IsAdmin() {
		return 0, domain.NewError(domain.ErrForbidden, "Access denied: admins only")
	}
	return uc.Run(ctx)
}
