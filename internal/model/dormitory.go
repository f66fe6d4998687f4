package model

import "time"

// DormitoryStatus is the operational state of a dormitory.
type DormitoryStatus string

const (
	DormitoryActive   DormitoryStatus = "active"
	DormitoryPending  DormitoryStatus = "pending"
	DormitoryInactive DormitoryStatus = "inactive"
)

// Dormitory is a housing building administered by exactly one admin user.
// The unique index on AdminID is what makes "the dormitory of admin X" a
// well-defined lookup.
type Dormitory struct {
	ID                  int64           `gorm:"primaryKey" json:"id"`
	Name                string          `gorm:"size:255;not null" json:"name"`
	UniversityID        *int64          `gorm:"index" json:"university_id"`
	Address             string          `json:"address"`
	City                string          `gorm:"size:100" json:"city"`
	FloorsCount         int             `gorm:"not null" json:"floors_count"`
	Description         string          `json:"description"`
	AdminID             *int64          `gorm:"uniqueIndex" json:"admin_id"`
	SubscriptionEndDate *time.Time      `json:"subscription_end_date"`
	Status              DormitoryStatus `gorm:"size:30;not null;default:active" json:"status"`
	ContactInfo         string          `json:"contact_info"`
	Latitude            *float64        `json:"latitude"`
	Longitude           *float64        `json:"longitude"`
	CreatedAt           time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"not null" json:"updated_at"`

	// Associations
	University *University `gorm:"constraint:OnDelete:SET NULL" json:"university,omitempty"`
	Admin      *User       `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Floors     []Floor     `gorm:"foreignKey:DormitoryID" json:"floors,omitempty"`
}

// GenderType restricts which students a floor houses.
type GenderType string

const (
	GenderMale   GenderType = "male"
	GenderFemale GenderType = "female"
)

// Floor belongs to exactly one dormitory, unique per (dormitory, floor number).
type Floor struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	DormitoryID int64      `gorm:"not null;uniqueIndex:idx_floor_dormitory_number" json:"dormitory_id"`
	FloorNumber int        `gorm:"not null;uniqueIndex:idx_floor_dormitory_number" json:"floor_number"`
	RoomsCount  int        `json:"rooms_count"`
	GenderType  GenderType `gorm:"size:20;not null;default:female" json:"gender_type"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`

	// Associations
	Dormitory Dormitory `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// RoomStatus is the occupancy state of a room.
type RoomStatus string

const (
	RoomAvailable        RoomStatus = "available"
	RoomPartiallyFilled  RoomStatus = "partially_filled"
	RoomFull             RoomStatus = "full"
	RoomUnderMaintenance RoomStatus = "under_maintenance"
)

// Room belongs to one floor; DormitoryID is denormalized so room queries can
// be scoped to an admin without joining through floors.
type Room struct {
	ID               int64      `gorm:"primaryKey" json:"id"`
	FloorID          int64      `gorm:"not null;uniqueIndex:idx_room_floor_number" json:"floor_id"`
	DormitoryID      int64      `gorm:"not null;index" json:"dormitory_id"`
	RoomNumber       string     `gorm:"size:10;not null;uniqueIndex:idx_room_floor_number" json:"room_number"`
	Capacity         int        `gorm:"not null" json:"capacity"`
	CurrentOccupancy int        `gorm:"not null;default:0" json:"current_occupancy"`
	Status           RoomStatus `gorm:"size:20;not null;default:available" json:"status"`
	Description      string     `json:"description"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`

	// Associations
	Floor     Floor     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Dormitory Dormitory `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// IsFull reports whether the room has no remaining capacity.
func (r Room) IsFull() bool {
	return r.CurrentOccupancy >= r.Capacity
}

// DormitoryImage stores an uploaded image by reference path.
type DormitoryImage struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	DormitoryID int64     `gorm:"not null;index" json:"dormitory_id"`
	ImageURL    string    `gorm:"size:512;not null" json:"image_url"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`

	// Associations
	Dormitory Dormitory `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// RoomImage stores an uploaded room image by reference path.
type RoomImage struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	RoomID    int64     `gorm:"not null;index" json:"room_id"`
	ImageURL  string    `gorm:"size:512;not null" json:"image_url"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	// Associations
	Room Room `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
