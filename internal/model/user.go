package model

import "time"

// Role is the closed set of user roles. Every permission decision in the
// system resolves through these three variants.
type Role string

const (
	RoleStudent    Role = "student"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// UserStatus is the account lifecycle state.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
	UserBlocked  UserStatus = "blocked"
)

// User is an authenticated identity with a role and account status.
type User struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;size:254;not null" json:"email"`
	PasswordHash string     `gorm:"size:128;not null" json:"-"`
	FirstName    string     `gorm:"size:150" json:"first_name"`
	LastName     string     `gorm:"size:150" json:"last_name"`
	Role         Role       `gorm:"size:10;not null;default:student" json:"role"`
	Status       UserStatus `gorm:"size:20;not null;default:active" json:"status"`

	ResetPasswordToken        string     `gorm:"size:100" json:"-"`
	ResetPasswordTokenExpires *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// UserProfile holds the editable profile attached to a user account.
type UserProfile struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"uniqueIndex;not null" json:"user_id"`
	PhoneNumber string    `gorm:"size:15" json:"phone_number"`
	PictureURL  string    `gorm:"size:512" json:"picture_url"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
