package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACSHA256Hex returns the hex-encoded HMAC-SHA256 of msg under secret
func HMACSHA256Hex(secret, msg string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

// PaymentSignature is the signature a gateway issues for a captured payment
func PaymentSignature(secret, orderID, paymentID string) string {
	return HMACSHA256Hex(secret, orderID+"|"+paymentID)
}

// VerifyPaymentSignature compares a client-supplied signature in constant time
func VerifyPaymentSignature(secret, orderID, paymentID, signature string) bool {
	expected := PaymentSignature(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SHA256Hex returns the hex-encoded SHA-256 digest of s
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
