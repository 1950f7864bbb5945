package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/mr-tron/base58"
)

// ScanCodeBase is the offset added to the ticket sequence for display codes
const ScanCodeBase = 100

// FormatScanCode renders the display code for the n-th ticket (zero-based)
func FormatScanCode(n int64) string {
	return fmt.Sprintf("SCAN%d", ScanCodeBase+n)
}

// GenerateOTP creates a numeric one-time code with the given number of digits
func GenerateOTP(digits int) (string, error) {
	if digits <= 0 {
		return "", fmt.Errorf("digits must be positive")
	}

	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}

// GenerateReceipt creates a short random receipt identifier for payment orders
func GenerateReceipt() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate receipt: %w", err)
	}
	return "rcpt_" + base58.Encode(b), nil
}
