package handlers

import (
	"net/http"
	"testing"

	"event-portal/internal/auth"
	"event-portal/internal/models"
	"event-portal/internal/testutil"
)

func participantBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"role":         "Participant",
		"name":         "Asha Rao",
		"email":        email,
		"phone":        "9876543210",
		"password":     "password123",
		"team_name":    "Byte Club",
		"project_name": "Gatekeeper",
		"category":     "AI",
	}
}

func TestRegisterPayAndFetchTicket(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodPost, "/api/verify/send", map[string]string{"email": "asha@example.com"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("send otp: %d %s", w.Code, w.Body.String())
	}
	m := codePattern.FindStringSubmatch(s.mailer.last().Body)
	if m == nil {
		t.Fatalf("no code in mail: %s", s.mailer.last().Body)
	}

	w, _ = s.do(t, http.MethodPost, "/api/verify/confirm", map[string]string{"email": "asha@example.com", "code": m[1]}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("confirm otp: %d %s", w.Code, w.Body.String())
	}

	w, env := s.do(t, http.MethodPost, "/api/register", participantBody("asha@example.com"), "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	var reg struct {
		User            models.User   `json:"user"`
		Ticket          models.Ticket `json:"ticket"`
		FinalPrice      string        `json:"final_price"`
		RequiresPayment bool          `json:"requires_payment"`
		Token           string        `json:"token"`
	}
	decodeData(t, env, &reg)
	if !reg.RequiresPayment || reg.FinalPrice != "1800" || reg.Ticket.QRCodeData != "SCAN100" {
		t.Fatalf("unexpected registration: %+v", reg)
	}

	var cookieSet bool
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.TokenCookie && c.Value == reg.Token {
			cookieSet = true
		}
	}
	if !cookieSet {
		t.Error("register should set the session cookie")
	}

	w, env = s.do(t, http.MethodPost, "/api/payment/order", nil, reg.Token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create order: %d %s", w.Code, w.Body.String())
	}
	var order struct {
		Order       models.PaymentOrder `json:"order"`
		AmountMinor int64               `json:"amount_minor"`
	}
	decodeData(t, env, &order)
	if order.AmountMinor != 180000 {
		t.Errorf("expected 180000 minor units, got %d", order.AmountMinor)
	}

	verify := map[string]interface{}{
		"user_id":             reg.User.ID,
		"razorpay_order_id":   order.Order.OrderID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "bogus",
	}
	w, env = s.do(t, http.MethodPost, "/api/payment/verify", verify, "")
	if w.Code != http.StatusBadRequest || env.Code != "INVALID_SIGNATURE" {
		t.Fatalf("expected invalid signature, got %d %s", w.Code, w.Body.String())
	}

	verify["razorpay_signature"] = s.gateway.Sign(order.Order.OrderID, "pay_1")
	w, env = s.do(t, http.MethodPost, "/api/payment/verify", verify, "")
	if w.Code != http.StatusOK {
		t.Fatalf("verify: %d %s", w.Code, w.Body.String())
	}
	var result struct {
		PaymentStatus string `json:"payment_status"`
	}
	decodeData(t, env, &result)
	if result.PaymentStatus != string(models.PaymentStatusCompleted) {
		t.Errorf("expected Completed, got %s", result.PaymentStatus)
	}

	w, env = s.do(t, http.MethodGet, "/api/ticket/me", nil, reg.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("ticket/me: %d %s", w.Code, w.Body.String())
	}
	var ticket models.Ticket
	decodeData(t, env, &ticket)
	if ticket.QRCodeData != "SCAN100" || ticket.Status != models.TicketStatusValid {
		t.Errorf("unexpected ticket: %+v", ticket)
	}

	w, env = s.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "asha@example.com", "password": "password123"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterErrors(t *testing.T) {
	s := newTestServer(t)

	body := participantBody("bad")
	delete(body, "team_name")
	w, env := s.do(t, http.MethodPost, "/api/register", body, "")
	if w.Code != http.StatusBadRequest || env.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected validation failure, got %d %s", w.Code, w.Body.String())
	}
	if env.Fields["team_name"] == "" || env.Fields["email"] == "" {
		t.Errorf("expected field errors, got %v", env.Fields)
	}
	if env.Success {
		t.Error("success must be false")
	}

	w, env = s.do(t, http.MethodPost, "/api/register", participantBody("new@example.com"), "")
	if w.Code != http.StatusBadRequest || env.Code != "EMAIL_NOT_VERIFIED" {
		t.Errorf("expected email not verified, got %d %s", w.Code, w.Body.String())
	}

	w, env = s.do(t, http.MethodPost, "/api/coupons/apply", map[string]string{"code": "NOPE"}, "")
	if w.Code != http.StatusBadRequest || env.Code != "INVALID_COUPON" {
		t.Errorf("expected invalid coupon, got %d %s", w.Code, w.Body.String())
	}

	w, env = s.do(t, http.MethodPost, "/api/payment/verify", map[string]string{}, "")
	if w.Code != http.StatusBadRequest || env.Fields["user_id"] == "" {
		t.Errorf("expected user_id required, got %d %s", w.Code, w.Body.String())
	}
}

func TestApplyCouponPreview(t *testing.T) {
	s := newTestServer(t)
	college := createCollege(t, s)

	w, env := s.do(t, http.MethodPost, "/api/coupons/apply", map[string]interface{}{"code": "IITD200", "college_id": college}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("apply: %d %s", w.Code, w.Body.String())
	}
	var preview struct {
		Kind       string `json:"kind"`
		Discount   string `json:"discount"`
		FinalPrice string `json:"final_price"`
	}
	decodeData(t, env, &preview)
	if preview.Kind != "college" || preview.Discount != "200" || preview.FinalPrice != "1600" {
		t.Errorf("unexpected preview: %+v", preview)
	}

	w, env = s.do(t, http.MethodPost, "/api/coupons/apply", map[string]interface{}{"code": "IITD200"}, "")
	if w.Code != http.StatusBadRequest || env.Code != "COUPON_MISMATCH" {
		t.Errorf("expected mismatch without college, got %d %s", w.Code, w.Body.String())
	}
}

func createCollege(t *testing.T, s *testServer) uint {
	t.Helper()
	return testutil.CreateCollege(t, s.db, "IIT Delhi", "IITD200", 200).ID
}
