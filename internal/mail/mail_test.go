package mail

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"event-portal/internal/config"
)

func TestNewMailerFallsBackToLog(t *testing.T) {
	if _, ok := NewMailer(config.MailConfig{}).(LogMailer); !ok {
		t.Fatal("expected LogMailer without SMTP host")
	}
	if _, ok := NewMailer(config.MailConfig{Host: "smtp.example.com"}).(*SMTPMailer); !ok {
		t.Fatal("expected SMTPMailer with host")
	}
}

func TestLogMailerSend(t *testing.T) {
	if err := (LogMailer{}).Send(context.Background(), Message{To: "a@b.c", Subject: "s", Body: "b"}); err != nil {
		t.Fatalf("LogMailer.Send failed: %v", err)
	}
}

func TestSMTPBuild(t *testing.T) {
	m := &SMTPMailer{cfg: config.MailConfig{From: "events@example.com"}}

	tests := []struct {
		name    string
		subject string
		want    []string
		notWant string
	}{
		{"ascii subject", "Hello", []string{"events@example.com", "a@b.c", "Subject: Hello", "body"}, ""},
		{"non-ascii subject", "Fête 2026", []string{"Subject: =?UTF-8?q?", "body"}, "Fête"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := m.build(Message{To: "a@b.c", Subject: tt.subject, Body: "body"})
			if err != nil {
				t.Fatalf("build failed: %v", err)
			}
			var buf bytes.Buffer
			if _, err := out.WriteTo(&buf); err != nil {
				t.Fatalf("WriteTo failed: %v", err)
			}
			raw := buf.String()

			for _, want := range tt.want {
				if !strings.Contains(raw, want) {
					t.Errorf("message missing %q:\n%s", want, raw)
				}
			}
			if tt.notWant != "" && strings.Contains(raw, tt.notWant) {
				t.Errorf("subject was not encoded:\n%s", raw)
			}
		})
	}
}

func TestSMTPBuildRejectsBadRecipient(t *testing.T) {
	m := &SMTPMailer{cfg: config.MailConfig{From: "events@example.com"}}
	if _, err := m.build(Message{To: "not an address", Subject: "s", Body: "b"}); err == nil {
		t.Fatal("expected error for malformed recipient")
	}
}

func TestTemplates(t *testing.T) {
	otp := OTPMessage("TechFest", "a@b.c", "123456", 10*time.Minute)
	if !strings.Contains(otp.Body, "123456") || !strings.Contains(otp.Body, "10 minutes") {
		t.Errorf("unexpected otp body: %s", otp.Body)
	}

	conf := ConfirmationMessage("TechFest", TicketDetails{Name: "Asha", Email: "a@b.c", Role: "Participant", ScanCode: "SCAN100"})
	if conf.To != "a@b.c" || !strings.Contains(conf.Body, "SCAN100") {
		t.Errorf("unexpected confirmation: %+v", conf)
	}
	if strings.Contains(conf.Body, "Amount paid") {
		t.Error("complimentary confirmation should not mention an amount")
	}
}
