package models

import "github.com/google/uuid"

// Store statuses.
const (
	StoreActive   = "active"
	StoreInactive = "inactive"
)

// Store belongs to exactly one approved partner.
type Store struct {
	BaseModel
	PartnerID      uuid.UUID `gorm:"type:uuid;not null;index" json:"partner_id"`
	StoreName      string    `gorm:"size:150;not null" json:"store_name"`
	StoreOwner     string    `gorm:"size:150" json:"store_owner"`
	Platform       string    `gorm:"size:50;not null" json:"platform"`
	Earning        float64   `gorm:"type:decimal(10,2);default:0" json:"earning"`
	TotalValue     float64   `gorm:"type:decimal(10,2);default:0" json:"total_value"`
	Status         string    `gorm:"size:20;not null;default:active" json:"status"`
	InactiveReason string    `gorm:"type:text" json:"inactive_reason,omitempty"`
}
