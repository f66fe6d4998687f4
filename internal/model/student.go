package model

import "time"

// Student is a housed-student record, normally created by an admin from an
// approved application.
type Student struct {
	ID                    int64     `gorm:"primaryKey" json:"id"`
	UserID                int64     `gorm:"not null;index" json:"user_id"`
	ApplicationID         *int64    `gorm:"uniqueIndex" json:"application_id"`
	FirstName             string    `gorm:"size:255;not null" json:"first_name"`
	LastName              string    `gorm:"size:255;not null" json:"last_name"`
	MiddleName            string    `gorm:"size:255" json:"middle_name"`
	DormitoryID           *int64    `gorm:"index" json:"dormitory_id"`
	FacultyID             *int64    `json:"faculty_id"`
	Direction             string    `gorm:"size:255" json:"direction"`
	Province              string    `gorm:"size:255" json:"province"`
	District              string    `gorm:"size:255" json:"district"`
	FloorID               *int64    `json:"floor_id"`
	RoomID                *int64    `json:"room_id"`
	PassportNumber        string    `gorm:"size:9;uniqueIndex;not null" json:"passport_number"`
	PictureURL            string    `gorm:"size:512" json:"picture_url"`
	PhoneNumber           string    `gorm:"size:15" json:"phone_number"`
	EmergencyContactPhone string    `gorm:"size:15" json:"emergency_contact_phone"`
	Discount              string    `gorm:"size:255" json:"discount"`
	SocialStatus          string    `gorm:"size:255" json:"social_status"`
	CreatedAt             time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	User        User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Application *Application `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Dormitory   *Dormitory   `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Floor       *Floor       `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Room        *Room        `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}
