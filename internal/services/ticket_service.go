package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"event-portal/internal/apperrors"
	"event-portal/internal/models"
	"event-portal/internal/repository"
	"event-portal/internal/telemetry"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Scanner identifies the staff member at the gate
type Scanner struct {
	ID    uint
	Name  string
	Email string
	Role  models.Role
}

func (s Scanner) label() string {
	if s.Email != "" {
		return s.Email
	}
	return s.Name
}

// ScanResult is the outcome of a gate scan
type ScanResult struct {
	Ticket         *models.Ticket `json:"ticket"`
	AlreadyScanned bool           `json:"already_scanned"`
	Message        string         `json:"message"`
}

// TicketStats counts tickets by status
type TicketStats struct {
	Total   int64 `json:"total"`
	Valid   int64 `json:"valid"`
	Used    int64 `json:"used"`
	Invalid int64 `json:"invalid"`
}

type TicketService struct {
	repo  *repository.Repository
	audit *AuditLogger
	now   func() time.Time
}

func NewTicketService(repo *repository.Repository, audit *AuditLogger) *TicketService {
	return &TicketService{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

// Scan admits the holder of code. A ticket moves from Valid to Used once;
// scanning it again reports the original scan without changing it.
func (s *TicketService) Scan(ctx context.Context, code string, scanner Scanner) (*ScanResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "ticket.Scan")
	defer span.End()

	if !scanner.Role.CanScan() {
		return nil, apperrors.ErrForbidden
	}

	ticket, err := s.lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("ticket.code", ticket.QRCodeData))

	switch ticket.Status {
	case models.TicketStatusInvalid:
		return nil, apperrors.ErrTicketInvalid
	case models.TicketStatusUsed:
		return alreadyScanned(ticket), nil
	}

	ok, err := s.repo.MarkTicketUsed(ctx, ticket.ID, scanner.label(), scanner.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to mark ticket used: %w", err)
	}

	current, err := s.repo.GetTicketByID(ctx, ticket.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload ticket: %w", err)
	}

	if !ok {
		// Lost a race with another scan or an admin change.
		if current.Status == models.TicketStatusUsed {
			return alreadyScanned(current), nil
		}
		return nil, apperrors.ErrTicketInvalid
	}

	log.Printf("Ticket %s scanned by %s", current.QRCodeData, scanner.label())
	return &ScanResult{Ticket: current, Message: "Entry granted"}, nil
}

func alreadyScanned(ticket *models.Ticket) *ScanResult {
	msg := "Ticket already scanned"
	if ticket.ScannedAt != nil {
		msg = fmt.Sprintf("Ticket already scanned at %s by %s", ticket.ScannedAt.Format(time.RFC3339), ticket.ScannedBy)
	}
	return &ScanResult{Ticket: ticket, AlreadyScanned: true, Message: msg}
}

// lookup finds a ticket by scan code, falling back to the owner's user id
func (s *TicketService) lookup(ctx context.Context, code string) (*models.Ticket, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.Validation("ticket code is required", map[string]string{"code": "is required"})
	}

	ticket, err := s.repo.GetTicketByCode(ctx, code)
	if err == nil {
		return ticket, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("failed to look up ticket: %w", err)
	}

	if userID, convErr := strconv.ParseUint(code, 10, 64); convErr == nil {
		ticket, err = s.repo.GetTicketByUserID(ctx, uint(userID))
		if err == nil {
			return ticket, nil
		}
		if !repository.IsNotFound(err) {
			return nil, fmt.Errorf("failed to look up ticket: %w", err)
		}
	}

	return nil, apperrors.New(apperrors.CodeNotFound, "ticket not found")
}

// GetMyTicket returns the ticket owned by userID
func (s *TicketService) GetMyTicket(ctx context.Context, userID uint) (*models.Ticket, error) {
	ticket, err := s.repo.GetTicketByUserID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "no ticket issued for this account")
		}
		return nil, err
	}
	return ticket, nil
}

// Reset returns a ticket to Valid and clears its scan metadata
func (s *TicketService) Reset(ctx context.Context, ticketID uuid.UUID, adminID uint) (*models.Ticket, error) {
	if err := s.repo.ResetTicket(ctx, ticketID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "ticket not found")
		}
		return nil, fmt.Errorf("failed to reset ticket: %w", err)
	}

	s.audit.LogAdminAction(ctx, adminID, "RESET_TICKET", "TICKET", ticketID.String(), nil)
	log.Printf("Ticket %s reset by admin %d", ticketID, adminID)
	return s.repo.GetTicketByID(ctx, ticketID)
}

// Invalidate blocks a ticket from entry
func (s *TicketService) Invalidate(ctx context.Context, ticketID uuid.UUID, adminID uint, reason string) (*models.Ticket, error) {
	if err := s.repo.InvalidateTicket(ctx, ticketID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "ticket not found")
		}
		return nil, fmt.Errorf("failed to invalidate ticket: %w", err)
	}

	s.audit.LogAdminAction(ctx, adminID, "INVALIDATE_TICKET", "TICKET", ticketID.String(), models.JSONB{"reason": reason})
	log.Printf("Ticket %s invalidated by admin %d", ticketID, adminID)
	return s.repo.GetTicketByID(ctx, ticketID)
}

// Stats counts tickets by status
func (s *TicketService) Stats(ctx context.Context) (*TicketStats, error) {
	counts, err := s.repo.CountTicketsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	stats := &TicketStats{
		Valid:   counts[models.TicketStatusValid],
		Used:    counts[models.TicketStatusUsed],
		Invalid: counts[models.TicketStatusInvalid],
	}
	stats.Total = stats.Valid + stats.Used + stats.Invalid
	return stats, nil
}
