package payments

import (
	"fmt"
	"strings"

	"event-portal/internal/config"
	"event-portal/internal/payments/razorpay"
	"event-portal/internal/payments/stub"
)

// NewGateway selects the configured payment provider
func NewGateway(cfg config.PaymentConfig) (Gateway, error) {
	switch strings.ToLower(cfg.Provider) {
	case "stub":
		return stub.New(cfg.KeySecret), nil
	case "razorpay":
		return razorpay.New(cfg.KeyID, cfg.KeySecret), nil
	default:
		return nil, fmt.Errorf("unknown payment provider: %s", cfg.Provider)
	}
}
