package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is a project track participants register under
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

// Sponsor is a confirmed sponsor shown on the public site
type Sponsor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Tier      string    `gorm:"size:50;index" json:"tier"`
	LogoURL   string    `gorm:"size:500" json:"logo_url"`
	Website   string    `gorm:"size:500" json:"website"`
	CreatedAt time.Time `json:"created_at"`
}

func (Sponsor) TableName() string {
	return "sponsors"
}

type SponsorRequestStatus string

const (
	SponsorRequestPending  SponsorRequestStatus = "Pending"
	SponsorRequestApproved SponsorRequestStatus = "Approved"
	SponsorRequestRejected SponsorRequestStatus = "Rejected"
)

// SponsorRequest is an inbound sponsorship enquiry
type SponsorRequest struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	CompanyName string               `gorm:"size:255;not null" json:"company_name"`
	ContactName string               `gorm:"size:255;not null" json:"contact_name"`
	Email       string               `gorm:"size:255;not null" json:"email"`
	Phone       string               `gorm:"size:32" json:"phone"`
	Tier        string               `gorm:"size:50" json:"tier"`
	Message     string               `gorm:"type:text" json:"message"`
	Status      SponsorRequestStatus `gorm:"size:20;not null;default:Pending;index" json:"status"`
	ReviewedBy  *uint                `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time           `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func (SponsorRequest) TableName() string {
	return "sponsor_requests"
}

type StallStatus string

const (
	StallAvailable StallStatus = "Available"
	StallBooked    StallStatus = "Booked"
)

// Stall is an exhibition space sponsors can book
type Stall struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Location       string          `gorm:"size:255" json:"location"`
	Size           string          `gorm:"size:50" json:"size"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Status         StallStatus     `gorm:"size:20;not null;default:Available;index" json:"status"`
	BookedByUserID *uint           `gorm:"index" json:"booked_by_user_id,omitempty"`
	BookedAt       *time.Time      `json:"booked_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Stall) TableName() string {
	return "stalls"
}
