package models

// Referral statuses. No transition table constrains them; any value may
// follow any other.
const (
	ReferralNew       = "New"
	ReferralFailed    = "Failed"
	ReferralHold      = "hold"
	ReferralConfirmed = "confirmed"
)

// DefaultReferralPlatform is assumed when a submission omits the platform.
const DefaultReferralPlatform = "bigcommerce"

// Referral is a prospective store submitted for tracking, optionally
// attributed to a partner via their reference code. The code is validated at
// creation time only; a partner removed later leaves a dangling but harmless
// reference.
type Referral struct {
	BaseModel
	Name         string  `gorm:"size:100;not null" json:"name"`
	Email        string  `gorm:"size:100;uniqueIndex;not null" json:"email"`
	StoreName    string  `gorm:"size:150;not null" json:"store_name"`
	Website      string  `gorm:"size:200" json:"website"`
	Phone        string  `gorm:"size:30;not null" json:"phone"`
	Country      string  `gorm:"size:100;not null" json:"country"`
	City         string  `gorm:"size:100;not null" json:"city"`
	Platform     string  `gorm:"size:50;not null;default:bigcommerce" json:"platform"`
	Status       string  `gorm:"size:20;not null;default:New" json:"status"`
	ReferralCode *string `gorm:"size:8;index" json:"referral_code,omitempty"`
}
