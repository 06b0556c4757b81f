package domain

import (
	"time"

	"github.com/google/uuid"
)

// Payment - запись аудита успешной оплаты. Только вставка, никаких обновлений.
type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   string    `gorm:"index;not null"`
	PaymentID string    `gorm:"uniqueIndex;not null"`
	Signature string    `gorm:"not null"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	CourseID  uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time
}

// OrderRequest - что отправляем в шлюз. Notes сохраняются в заказе на стороне шлюза
// и связывают его с пользователем и курсом.
type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Order - заказ на стороне платежного шлюза. Локально не хранится.
type Order struct {
	ID         string `json:"id"`
	Entity     string `json:"entity"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	AmountDue  int64  `json:"amount_due"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"`
	Attempts   int    `json:"attempts"`
	CreatedAt  int64  `json:"created_at"`
}

// VerificationTriple - то, что шлюз отдает клиенту после оплаты
type VerificationTriple struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

func (t VerificationTriple) Complete() bool {
	return t.OrderID != "" && t.PaymentID != "" && t.Signature != ""
}

type GrantOutcome int

const (
	GrantApplied GrantOutcome = iota
	GrantAlreadyProcessed
)

func (o GrantOutcome) String() string {
	if o == GrantAlreadyProcessed {
		return "already_processed"
	}
	return "applied"
}

// MinorUnits переводит цену курса в копейки/пайсы, как ожидает шлюз
func MinorUnits(price int) int64 {
	return int64(price) * 100
}
