package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleParticipant  Role = "Participant"
	RoleDelegate     Role = "Delegate"
	RoleSponsor      Role = "Sponsor"
	RoleAdmin        Role = "Admin"
	RoleManager      Role = "Manager"
	RoleSuperAdmin   Role = "SuperAdmin"
	RoleAudience     Role = "Audience"
	RoleSponsorAdmin Role = "SponsorAdmin"
)

// Ticketed reports whether users of this role receive a gate ticket.
func (r Role) Ticketed() bool {
	return r == RoleParticipant || r == RoleDelegate
}

// CanScan reports whether the role may scan tickets at the gate.
func (r Role) CanScan() bool {
	return r == RoleManager || r == RoleAdmin || r == RoleSuperAdmin
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

// User represents a registered attendee, sponsor or staff member
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone        string `gorm:"size:32" json:"phone"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Role         Role   `gorm:"size:32;not null;index" json:"role"`

	CollegeID *uint    `gorm:"index" json:"college_id,omitempty"`
	College   *College `gorm:"foreignKey:CollegeID" json:"college,omitempty"`

	// Participant fields
	TeamName    string `gorm:"size:255" json:"team_name,omitempty"`
	ProjectName string `gorm:"size:255" json:"project_name,omitempty"`
	Category    string `gorm:"size:100" json:"category,omitempty"`

	// Sponsor fields
	CompanyName string `gorm:"size:255" json:"company_name,omitempty"`
	Designation string `gorm:"size:255" json:"designation,omitempty"`

	CouponUsed    string          `gorm:"size:50" json:"coupon_used,omitempty"`
	TicketPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"ticket_price"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	FinalPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"final_price"`
	PaymentStatus PaymentStatus   `gorm:"size:20;not null;default:Pending;index" json:"payment_status"`
	QRCode        string          `gorm:"size:50" json:"qr_code,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
