package stub

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"event-portal/internal/utils"
)

// Provider is a local gateway for development and tests. Orders are numbered
// in-process and signatures use the same HMAC scheme as the real gateway.
type Provider struct {
	secret string
	seq    atomic.Int64
}

func New(secret string) *Provider {
	return &Provider{secret: secret}
}

func (p *Provider) Name() string { return "stub" }

func (p *Provider) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	if amountMinor <= 0 {
		return "", fmt.Errorf("amount must be positive")
	}
	n := p.seq.Add(1)
	return fmt.Sprintf("order_stub_%d_%d", time.Now().Unix(), n), nil
}

func (p *Provider) VerifySignature(orderID, paymentID, signature string) bool {
	return utils.VerifyPaymentSignature(p.secret, orderID, paymentID, signature)
}

// Sign produces the signature a client would receive after paying orderID.
func (p *Provider) Sign(orderID, paymentID string) string {
	return utils.PaymentSignature(p.secret, orderID, paymentID)
}
