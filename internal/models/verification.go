package models

import "time"

// EmailVerification holds a pending or confirmed one-time code for an email
type EmailVerification struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Email      string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	OTPHash    string     `gorm:"size:64;not null" json:"-"`
	Attempts   int        `gorm:"not null;default:0" json:"attempts"`
	ExpiresAt  time.Time  `gorm:"not null;index" json:"expires_at"`
	Verified   bool       `gorm:"not null;default:false" json:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (EmailVerification) TableName() string {
	return "verifications"
}
