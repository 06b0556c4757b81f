package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/waste3d/coursemarket-api/internal/domain"

	"github.com/google/uuid"
)

const (
	MsgAlreadyOwned   = "You already have this course"
	MsgPaymentFailed  = "Payment Failed"
	MsgPurchased      = "Course Purchased Successfully"
	MsgMissingTriple  = "Missing payment verification fields"
	MsgUserNotFound   = "User not found"
	MsgCourseNotFound = "Course not found"
	MsgGatewayDown    = "Payment gateway is unavailable, please retry checkout"
	MsgOrderRejected  = "Payment gateway rejected the order"
	defaultCurrency   = "INR"
)

type CheckoutResult struct {
	Order  *domain.Order
	Course *domain.Course
}

type EnrollmentUseCase struct {
	users      UserStore
	courses    CourseStore
	gateway    PaymentGateway
	verifier   PaymentVerifier
	enrollment EnrollmentStore
	events     EventPublisher
	currency   string
	logger     *slog.Logger
}

func NewEnrollmentUseCase(
	us UserStore,
	cs CourseStore,
	gw PaymentGateway,
	v PaymentVerifier,
	es EnrollmentStore,
	ep EventPublisher,
	currency string,
	logger *slog.Logger,
) *EnrollmentUseCase {
	if currency == "" {
		currency = defaultCurrency
	}
	return &EnrollmentUseCase{
		users:      us,
		courses:    cs,
		gateway:    gw,
		verifier:   v,
		enrollment: es,
		events:     ep,
		currency:   currency,
		logger:     logger,
	}
}

// Checkout создает заказ в шлюзе на текущую цену курса. Локально ничего не пишем.
func (uc *EnrollmentUseCase) Checkout(ctx context.Context, userID, courseID uuid.UUID) (*CheckoutResult, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, MsgUserNotFound)
	}
	course, err := uc.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, notFoundAs(err, MsgCourseNotFound)
	}

	if user.HasCourse(course.ID) {
		return nil, domain.NewError(domain.ErrConflict, MsgAlreadyOwned)
	}

	amount := domain.MinorUnits(course.Price)
	receipt := "rcpt_" + uuid.NewString()[:8]

	order, err := uc.gateway.CreateOrder(ctx, domain.OrderRequest{
		Amount:   amount,
		Currency: uc.currency,
		Receipt:  receipt,
		Notes:    map[string]string{"user_id": userID.String(), "course_id": courseID.String()},
	})
	if err != nil {
		uc.logger.Error("gateway order creation failed",
			"user_id", userID, "course_id", courseID, "amount", amount, "error", err)
		if errors.Is(err, domain.ErrValidation) {
			return nil, domain.NewError(domain.ErrValidation, MsgOrderRejected)
		}
		if errors.Is(err, domain.ErrUpstream) {
			return nil, domain.NewError(domain.ErrUpstream, MsgGatewayDown)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	uc.logger.Info("checkout order created",
		"user_id", userID, "course_id", courseID, "order_id", order.ID, "amount", amount, "currency", uc.currency)

	return &CheckoutResult{Order: order, Course: course}, nil
}

// VerifyPayment проверяет подпись шлюза и выдает доступ к курсу.
// Повторная отправка того же payment_id тем же пользователем за тот же курс ничего не меняет
// и отвечает успехом. Чужой payment_id - "Payment Failed".
func (uc *EnrollmentUseCase) VerifyPayment(ctx context.Context, userID, courseID uuid.UUID, triple domain.VerificationTriple) error {
	if !triple.Complete() {
		return domain.NewError(domain.ErrValidation, MsgMissingTriple)
	}

	if !uc.verifier.Verify(triple.OrderID, triple.PaymentID, triple.Signature) {
		uc.logger.Warn("payment signature mismatch",
			"user_id", userID, "course_id", courseID, "order_id", triple.OrderID, "payment_id", triple.PaymentID)
		return domain.NewError(domain.ErrAuthenticity, MsgPaymentFailed)
	}

	payment := &domain.Payment{
		ID:        uuid.New(),
		OrderID:   triple.OrderID,
		PaymentID: triple.PaymentID,
		Signature: triple.Signature,
		UserID:    userID,
		CourseID:  courseID,
	}

	outcome, err := uc.enrollment.Grant(ctx, payment)
	if err != nil {
		if errors.Is(err, domain.ErrAuthenticity) {
			// payment_id уже выдал доступ другой паре (user, course)
			uc.logger.Warn("payment reused for another enrollment",
				"user_id", userID, "course_id", courseID, "payment_id", triple.PaymentID, "error", err)
			return domain.NewError(domain.ErrAuthenticity, MsgPaymentFailed)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewError(domain.ErrNotFound, "User or course not found")
		}
		return fmt.Errorf("grant course %s to %s: %w", courseID, userID, err)
	}

	uc.logger.Info("payment verified",
		"user_id", userID, "course_id", courseID, "payment_id", triple.PaymentID, "outcome", outcome.String())

	if outcome == domain.GrantAlreadyProcessed {
		return nil
	}

	evt := domain.CoursePurchased{
		UserID:      userID,
		CourseID:    courseID,
		OrderID:     triple.OrderID,
		PaymentID:   triple.PaymentID,
		PurchasedAt: time.Now().UTC(),
	}
	// доступ уже выдан, событие - best effort
	if err := uc.events.PublishCoursePurchased(ctx, evt); err != nil {
		uc.logger.Error("failed to publish course purchased event", "payment_id", triple.PaymentID, "error", err)
	}
	return nil
}

func notFoundAs(err error, msg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewError(domain.ErrNotFound, msg)
	}
	return err
}
