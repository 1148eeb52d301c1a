package models

import "time"

// Job is a listing shown on the board. PosterUserID is nil for seeded,
// listing-only jobs; otherwise it references a company account.
type Job struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Company      string    `gorm:"not null" json:"company"`
	Location     string    `gorm:"not null" json:"location"`
	Description  string    `gorm:"not null" json:"description"`
	PostedAt     time.Time `gorm:"not null" json:"posted_at"`
	PosterUserID *uint     `gorm:"index" json:"poster_user_id,omitempty"`
}

// PostedBy reports whether the job was created by the given account.
func (j *Job) PostedBy(userID uint) bool {
	return j != nil && j.PosterUserID != nil && *j.PosterUserID == userID
}
