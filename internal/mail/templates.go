package mail

import (
	"fmt"
	"strings"
	"time"
)

// OTPMessage builds the email-verification message
func OTPMessage(eventName, to, code string, ttl time.Duration) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("%s verification code", eventName),
		Body: fmt.Sprintf(
			"Your verification code is %s.\n\nIt expires in %d minutes. If you did not request it, ignore this email.\n",
			code, int(ttl.Minutes()),
		),
	}
}

// TicketDetails is the data rendered into a confirmation email
type TicketDetails struct {
	Name       string
	Email      string
	Role       string
	ScanCode   string
	AmountPaid string
}

// ConfirmationMessage builds the registration confirmation with the scan code
func ConfirmationMessage(eventName string, d TicketDetails) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", d.Name)
	fmt.Fprintf(&b, "Your registration for %s as %s is confirmed.\n", eventName, d.Role)
	if d.ScanCode != "" {
		fmt.Fprintf(&b, "Ticket code: %s\nShow this code (or its QR) at the gate.\n", d.ScanCode)
	}
	if d.AmountPaid != "" {
		fmt.Fprintf(&b, "Amount paid: %s\n", d.AmountPaid)
	}
	b.WriteString("\nSee you at the event!\n")

	return Message{
		To:      d.Email,
		Subject: fmt.Sprintf("%s registration confirmed", eventName),
		Body:    b.String(),
	}
}
