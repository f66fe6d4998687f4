package model

import "time"

// PushSubscription holds a browser push subscription registered by a user.
// Review decisions on the user's applications are delivered through it.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey" json:"endpoint"`
	P256DH    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	// Associations
	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
