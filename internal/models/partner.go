package models

// Partner lifecycle statuses. A pending application is either approved or
// rejected; approved is terminal, a rejected row may be deleted to allow a
// fresh application under the same email.
const (
	PartnerPending  = "pending"
	PartnerApproved = "approved"
	PartnerRejected = "rejected"
)

// Partner is an affiliate principal. PasswordHash and ReferenceCode stay nil
// until the application is approved.
type Partner struct {
	BaseModel
	Name            string  `gorm:"size:100;not null" json:"name"`
	Organization    string  `gorm:"size:150" json:"organization,omitempty"`
	Email           string  `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Description     string  `gorm:"size:255;not null" json:"description"`
	Website         string  `gorm:"size:200;not null" json:"website"`
	Platform        string  `gorm:"size:100;not null" json:"platform"`
	Country         string  `gorm:"size:100" json:"country,omitempty"`
	City            string  `gorm:"size:100" json:"city,omitempty"`
	AffiliateHandle string  `gorm:"size:100;not null" json:"affiliate_handle"`
	AdditionalInfo  string  `gorm:"type:text" json:"additional_info,omitempty"`
	MobilePhone     string  `gorm:"size:30;not null" json:"mobile_phone"`
	ProfileImage    string  `gorm:"type:text" json:"profile_image,omitempty"`
	PasswordHash    *string `gorm:"column:password" json:"-"`
	Status          string  `gorm:"size:20;not null;default:pending;index" json:"status"`
	IsRegistered    bool    `gorm:"not null;default:false" json:"is_registered"`
	Role            string  `gorm:"size:50;not null;default:partner" json:"role"`
	ReferenceCode   *string `gorm:"size:8;uniqueIndex" json:"reference_code,omitempty"`

	Stores   []Store        `gorm:"constraint:OnDelete:CASCADE" json:"stores,omitempty"`
	Payments []StorePayment `gorm:"constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}
