package razorpay

import (
	"context"
	"errors"
	"testing"

	"event-portal/internal/utils"
)

type fakeOrders struct {
	got  map[string]interface{}
	resp map[string]interface{}
	err  error
}

func (f *fakeOrders) Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error) {
	f.got = data
	return f.resp, f.err
}

func TestCreateOrder(t *testing.T) {
	orders := &fakeOrders{resp: map[string]interface{}{"id": "order_ABC", "status": "created"}}
	c := &Client{orders: orders, keySecret: "key_secret"}

	orderID, err := c.CreateOrder(context.Background(), 160050, "INR", "rcpt_1")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if orderID != "order_ABC" {
		t.Errorf("orderID = %s, want order_ABC", orderID)
	}
	if orders.got["amount"] != int64(160050) || orders.got["currency"] != "INR" || orders.got["receipt"] != "rcpt_1" {
		t.Errorf("unexpected order request: %+v", orders.got)
	}
}

func TestCreateOrderErrors(t *testing.T) {
	tests := []struct {
		name   string
		orders *fakeOrders
	}{
		{"api error", &fakeOrders{err: errors.New("amount too small")}},
		{"missing id", &fakeOrders{resp: map[string]interface{}{"status": "created"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{orders: tt.orders, keySecret: "key_secret"}
			if _, err := c.CreateOrder(context.Background(), 100, "INR", "rcpt_1"); err == nil {
				t.Fatal("expected error from gateway")
			}
		})
	}
}

func TestCreateOrderCancelledContext(t *testing.T) {
	orders := &fakeOrders{resp: map[string]interface{}{"id": "order_ABC"}}
	c := &Client{orders: orders, keySecret: "key_secret"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.CreateOrder(ctx, 100, "INR", "rcpt_1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if orders.got != nil {
		t.Error("order should not be sent after cancellation")
	}
}

func TestVerifySignature(t *testing.T) {
	c := New("key_id", "key_secret")
	sig := utils.PaymentSignature("key_secret", "order_1", "pay_1")

	if !c.VerifySignature("order_1", "pay_1", sig) {
		t.Error("valid signature rejected")
	}
	if c.VerifySignature("order_1", "pay_1", "deadbeef") {
		t.Error("forged signature accepted")
	}
	if c.VerifySignature("order_2", "pay_1", sig) {
		t.Error("signature accepted for another order")
	}
}
