package domain

import (
	"time"

	"github.com/google/uuid"
)

const EventCoursePurchased = "course.purchased"

type CoursePurchased struct {
	UserID      uuid.UUID `json:"user_id"`
	CourseID    uuid.UUID `json:"course_id"`
	OrderID     string    `json:"order_id"`
	PaymentID   string    `json:"payment_id"`
	PurchasedAt time.Time `json:"purchased_at"`
}
