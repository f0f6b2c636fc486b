package models

// Principal roles carried in tokens and role allow-lists.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
	RolePartner    = "partner"
)

// Admin is a back-office principal. Only a super_admin may create one.
type Admin struct {
	BaseModel
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password;not null" json:"-"`
	Profile      string `gorm:"size:200" json:"profile,omitempty"`
	Role         string `gorm:"size:20;not null;default:admin" json:"role"`
}
