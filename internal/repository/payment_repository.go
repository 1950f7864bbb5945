package repository

import (
	"context"
	"time"

	"event-portal/internal/models"
)

// CreatePaymentOrder stores a gateway order
func (r *Repository) CreatePaymentOrder(ctx context.Context, order *models.PaymentOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// GetPaymentOrderByOrderID retrieves an order by the gateway's order id
func (r *Repository) GetPaymentOrderByOrderID(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SetPaymentOrderStatus records the outcome of a payment attempt
func (r *Repository) SetPaymentOrderStatus(ctx context.Context, orderID string, status models.PaymentOrderStatus, paymentID string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if paymentID != "" {
		updates["payment_id"] = paymentID
	}
	return r.db.WithContext(ctx).
		Model(&models.PaymentOrder{}).
		Where("order_id = ?", orderID).
		Updates(updates).Error
}

// PendingRegistration is a user whose payment has not completed
type PendingRegistration struct {
	UserID     uint
	Email      string
	FinalPrice string
	CreatedAt  time.Time
	Orders     int64
}

// ListPendingRegistrations returns users stuck in Pending older than cutoff
func (r *Repository) ListPendingRegistrations(ctx context.Context, cutoff time.Time) ([]PendingRegistration, error) {
	var rows []PendingRegistration
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id AS user_id, users.email, users.final_price, users.created_at, COUNT(payment_orders.id) AS orders").
		Joins("LEFT JOIN payment_orders ON payment_orders.user_id = users.id").
		Where("users.payment_status = ? AND users.created_at < ?", models.PaymentStatusPending, cutoff).
		Group("users.id, users.email, users.final_price, users.created_at").
		Order("users.created_at ASC").
		Scan(&rows).Error
	return rows, err
}
