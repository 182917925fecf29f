package model

import "time"

type ResourceStatus string

const (
	StatusPending  ResourceStatus = "pending"  // 待审核
	StatusApproved ResourceStatus = "approved" // 已通过
	StatusRejected ResourceStatus = "rejected" // 已拒绝
)

// IsTerminal 是否为终态
func (s ResourceStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type Resource struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Title            string         `gorm:"size:500;not null" json:"title"`
	Category         string         `gorm:"size:255;not null" json:"category"`
	URL              string         `gorm:"size:1000;not null" json:"url"`
	UserID           *uint          `json:"user_id,omitempty"`
	User             *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status           ResourceStatus `gorm:"size:20;index;default:pending" json:"status"`
	RejectionReason  string         `gorm:"type:text" json:"rejection_reason,omitempty"`
	ImageURL         string         `gorm:"size:1000" json:"image_url,omitempty"`
	ImageAttribution string         `gorm:"size:500" json:"image_attribution,omitempty"`
	Likes            []User         `gorm:"many2many:resource_likes;" json:"-"`
	Saves            []User         `gorm:"many2many:resource_saves;" json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
