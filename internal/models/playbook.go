package models

// Playbook is a training resource shared with partners.
type Playbook struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	URL         string `gorm:"size:255;not null" json:"url"`
}
