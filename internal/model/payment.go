package model

import "time"

// PaymentMethod is how a student payment was made.
type PaymentMethod string

const (
	MethodClick PaymentMethod = "click"
	MethodPayme PaymentMethod = "payme"
	MethodCash  PaymentMethod = "cash"
	MethodCard  PaymentMethod = "card"
)

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// PaymentByStudent is a single payment record made by a student user.
type PaymentByStudent struct {
	ID         int64         `gorm:"primaryKey" json:"id"`
	StudentID  int64         `gorm:"not null;index" json:"student_id"`
	Amount     float64       `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method     PaymentMethod `gorm:"size:10;not null;default:cash" json:"method"`
	Status     PaymentStatus `gorm:"size:10;not null;default:pending" json:"status"`
	PaidAt     time.Time     `gorm:"not null" json:"paid_at"`
	ReceiptURL string        `gorm:"size:512" json:"receipt_url"`

	// Associations
	Student User `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}

// SubscriptionForStudent records a student's paid occupancy period. The
// optional payment must belong to the same student.
type SubscriptionForStudent struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	PaymentID   *int64    `gorm:"uniqueIndex" json:"payment_id"`
	StudentID   int64     `gorm:"not null;index" json:"student_id"`
	DormitoryID *int64    `gorm:"index" json:"dormitory_id"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedByID int64     `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Payment   *PaymentByStudent `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Student   User              `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Dormitory *Dormitory        `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedBy User              `gorm:"foreignKey:CreatedByID" json:"-"`
}

// IsExpired reports whether the subscription period has passed, judged
// against the server's current date.
func (s SubscriptionForStudent) IsExpired(now time.Time) bool {
	return dateOnly(now).After(dateOnly(s.EndDate))
}

// SubscriptionPlanForDormitory is a billing plan offered to dormitories.
// Mutable only by its creator.
type SubscriptionPlanForDormitory struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	Description     string    `json:"description"`
	Price           float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	DurationMonths  int       `gorm:"not null;default:12" json:"duration_months"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	PaymentProofURL string    `gorm:"size:512" json:"payment_proof_url"`
	CreatedByID     int64     `gorm:"not null" json:"created_by_id"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	CreatedBy User `gorm:"foreignKey:CreatedByID" json:"-"`
}

// DormitorySubscription is the one active subscription of a dormitory
// against a plan. EndDate is computed from the plan duration when absent.
type DormitorySubscription struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	DormitoryID int64     `gorm:"uniqueIndex;not null" json:"dormitory_id"`
	PlanID      *int64    `json:"plan_id"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedByID int64     `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Dormitory Dormitory                     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Plan      *SubscriptionPlanForDormitory `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedBy User                          `gorm:"foreignKey:CreatedByID" json:"-"`
}

// IsExpired reports whether the subscription period has passed.
func (s DormitorySubscription) IsExpired(now time.Time) bool {
	return dateOnly(now).After(dateOnly(s.EndDate))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
