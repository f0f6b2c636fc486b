package models

import "github.com/google/uuid"

// Payment statuses.
const (
	PaymentPaid    = "paid"
	PaymentPending = "pending"
	PaymentFailed  = "failed"
)

// StorePayment records a payout period for a partner's store.
type StorePayment struct {
	BaseModel
	PartnerID  uuid.UUID `gorm:"type:uuid;not null;index" json:"partner_id"`
	StoreID    uuid.UUID `gorm:"type:uuid;not null;index" json:"store_id"`
	Amount     float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Commission float64   `gorm:"type:decimal(10,2);default:0" json:"commission"`
	StartDate  string    `gorm:"type:date;not null" json:"start_date"`
	EndDate    string    `gorm:"type:date;not null" json:"end_date"`
	Status     string    `gorm:"size:20;not null;default:paid" json:"status"`
}
