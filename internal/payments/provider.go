package payments

import (
	"context"

	"github.com/shopspring/decimal"
)

// Gateway is the payment provider used to collect registration fees
type Gateway interface {
	Name() string

	// CreateOrder opens an order for amountMinor (paise for INR) and returns the gateway order id.
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (orderID string, err error)

	// VerifySignature checks the signature returned to the client after checkout.
	VerifySignature(orderID, paymentID, signature string) bool
}

// MinorUnits converts a major-unit amount into the integer the gateway expects
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
