package models

import "time"

// Application links a user to a job they paid to apply for.
// (UserID, JobID) is unique.
type Application struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;uniqueIndex:idx_applications_user_job" json:"user_id"`
	JobID     uint       `gorm:"not null;uniqueIndex:idx_applications_user_job" json:"job_id"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ApplicationListing is an application joined with its job for the profile page.
type ApplicationListing struct {
	ID        uint
	JobID     uint
	Title     string
	Company   string
	Location  string
	PaidAt    *time.Time
	CreatedAt time.Time
}
