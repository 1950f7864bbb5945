package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentOrderStatus string

const (
	PaymentOrderCreated PaymentOrderStatus = "Created"
	PaymentOrderPaid    PaymentOrderStatus = "Paid"
	PaymentOrderFailed  PaymentOrderStatus = "Failed"
)

// PaymentOrder tracks a gateway order opened for a pending registration
type PaymentOrder struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uint               `gorm:"not null;index" json:"user_id"`
	OrderID   string             `gorm:"uniqueIndex;size:100;not null" json:"order_id"`
	Receipt   string             `gorm:"size:64;not null" json:"receipt"`
	Amount    decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency  string             `gorm:"size:8;not null" json:"currency"`
	Status    PaymentOrderStatus `gorm:"size:20;not null;default:Created;index" json:"status"`
	PaymentID *string            `gorm:"size:100" json:"payment_id,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func (PaymentOrder) TableName() string {
	return "payment_orders"
}

func (o *PaymentOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
