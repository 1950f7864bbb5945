package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketStatus string

const (
	TicketStatusValid   TicketStatus = "Valid"
	TicketStatusUsed    TicketStatus = "Used"
	TicketStatusInvalid TicketStatus = "Invalid"
)

// Ticket is the gate pass issued to a participant or delegate
type Ticket struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uint         `gorm:"uniqueIndex;not null" json:"user_id"`
	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	QRCodeData  string       `gorm:"uniqueIndex;size:50;not null" json:"qr_code_data"`
	Status      TicketStatus `gorm:"size:20;not null;default:Valid;index" json:"status"`
	ScannedAt   *time.Time   `json:"scanned_at,omitempty"`
	ScannedBy   string       `gorm:"size:255" json:"scanned_by,omitempty"`
	ScannedByID *uint        `json:"scanned_by_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Sequence is a named monotonically increasing counter
type Sequence struct {
	Name  string `gorm:"primaryKey;size:50" json:"name"`
	Value int64  `gorm:"not null;default:0" json:"value"`
}

func (Sequence) TableName() string {
	return "sequences"
}

// SequenceTicketCode names the counter behind SCAN codes.
const SequenceTicketCode = "ticket_code"
