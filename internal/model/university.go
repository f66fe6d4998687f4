package model

import "time"

// University is read-mostly directory data.
type University struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	City        string    `gorm:"size:100" json:"city"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	ContactInfo string    `json:"contact_info"`
	Website     string    `gorm:"size:255" json:"website"`
	LogoURL     string    `gorm:"size:512" json:"logo_url"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Faculties []Faculty `gorm:"foreignKey:UniversityID" json:"faculties,omitempty"`
}

// Faculty belongs to exactly one university, unique per (university, name).
type Faculty struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UniversityID int64     `gorm:"not null;uniqueIndex:idx_faculty_university_name" json:"university_id"`
	Name         string    `gorm:"size:255;not null;uniqueIndex:idx_faculty_university_name" json:"name"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	University University `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
