package model

import "time"

// ApplicationStatus is the review lifecycle of a housing application.
// Transitions out of pending are one-directional.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationApproved  ApplicationStatus = "approved"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationCancelled ApplicationStatus = "cancelled"
)

// Application is a student's request to be housed in a dormitory.
// At most one pending application may exist per (student, dormitory);
// enforced at validation time, not as a database constraint.
type Application struct {
	ID             int64             `gorm:"primaryKey" json:"id"`
	StudentID      int64             `gorm:"not null;index" json:"student_id"`
	DormitoryID    int64             `gorm:"not null;index" json:"dormitory_id"`
	FirstName      string            `gorm:"size:255;not null" json:"first_name"`
	LastName       string            `gorm:"size:255;not null" json:"last_name"`
	MiddleName     string            `gorm:"size:255" json:"middle_name"`
	FacultyID      *int64            `json:"faculty_id"`
	Province       string            `gorm:"size:255" json:"province"`
	District       string            `gorm:"size:255" json:"district"`
	PassportNumber string            `gorm:"size:9;uniqueIndex;not null" json:"passport_number"`
	PhoneNumber    string            `gorm:"size:15" json:"phone_number"`
	PictureURL     string            `gorm:"size:512" json:"picture_url"`
	Comment        string            `json:"comment"`
	Status         ApplicationStatus `gorm:"size:20;not null;default:pending" json:"status"`
	SubmittedAt    time.Time         `gorm:"not null" json:"submitted_at"`
	ReviewedAt     *time.Time        `json:"reviewed_at"`

	// Associations
	Student   User      `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Dormitory Dormitory `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Faculty   *Faculty  `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}
