package razorpay

import (
	"context"
	"fmt"

	rzp "github.com/razorpay/razorpay-go"
	rzputils "github.com/razorpay/razorpay-go/utils"
)

// orderCreator is the part of the SDK's order resource the gateway uses
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Client opens orders and checks checkout signatures through the Razorpay SDK
type Client struct {
	orders    orderCreator
	keySecret string
}

func New(keyID, keySecret string) *Client {
	sdk := rzp.NewClient(keyID, keySecret)
	return &Client{orders: sdk.Order, keySecret: keySecret}
}

func (c *Client) Name() string { return "razorpay" }

// CreateOrder opens an order for amountMinor paise
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	// The SDK call is not cancellable, so only an already-done context stops it.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := c.orders.Create(map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay: create order: %w", err)
	}

	orderID, _ := body["id"].(string)
	if orderID == "" {
		return "", fmt.Errorf("razorpay: order id missing in response")
	}
	return orderID, nil
}

func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return rzputils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}, signature, c.keySecret)
}
