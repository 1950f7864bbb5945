package repository

import (
	"context"
	"time"

	"event-portal/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NextSequence atomically increments the named counter and returns its new value
func (r *Repository) NextSequence(ctx context.Context, name string) (int64, error) {
	seq := models.Sequence{Name: name, Value: 1}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value": gorm.Expr("sequences.value + ?", 1),
		}),
	}).Create(&seq).Error
	if err != nil {
		return 0, err
	}

	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}

// CreateTicket inserts a ticket
func (r *Repository) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

// GetTicketByID retrieves a ticket by ID
func (r *Repository) GetTicketByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetTicketByCode retrieves a ticket by its scan code
func (r *Repository) GetTicketByCode(ctx context.Context, code string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).Preload("User").Where("qr_code_data = ?", code).First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetTicketByUserID retrieves the ticket owned by a user
func (r *Repository) GetTicketByUserID(ctx context.Context, userID uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// MarkTicketUsed moves a ticket from Valid to Used. It returns false when the
// ticket was not Valid at the time of the update.
func (r *Repository) MarkTicketUsed(ctx context.Context, id uuid.UUID, scannedBy string, scannerID uint, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ? AND status = ?", id, models.TicketStatusValid).
		Updates(map[string]interface{}{
			"status":        models.TicketStatusUsed,
			"scanned_at":    at,
			"scanned_by":    scannedBy,
			"scanned_by_id": scannerID,
			"updated_at":    at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ResetTicket returns a ticket to Valid and clears its scan metadata
func (r *Repository) ResetTicket(ctx context.Context, id uuid.UUID) error {
	return r.setTicketStatus(ctx, r.db.Where("id = ?", id), models.TicketStatusValid, true)
}

// InvalidateTicket marks a ticket Invalid
func (r *Repository) InvalidateTicket(ctx context.Context, id uuid.UUID) error {
	return r.setTicketStatus(ctx, r.db.Where("id = ?", id), models.TicketStatusInvalid, false)
}

// SetTicketValidForUser marks the user's ticket Valid without touching scan metadata.
// A used ticket stays used.
func (r *Repository) SetTicketValidForUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("user_id = ? AND status <> ?", userID, models.TicketStatusUsed).
		Updates(map[string]interface{}{
			"status":     models.TicketStatusValid,
			"updated_at": time.Now(),
		}).Error
}

func (r *Repository) setTicketStatus(ctx context.Context, scope *gorm.DB, status models.TicketStatus, clearScan bool) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if clearScan {
		updates["scanned_at"] = nil
		updates["scanned_by"] = ""
		updates["scanned_by_id"] = nil
	}

	result := scope.WithContext(ctx).Model(&models.Ticket{}).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountTicketsByStatus groups tickets by status
func (r *Repository) CountTicketsByStatus(ctx context.Context) (map[models.TicketStatus]int64, error) {
	var rows []struct {
		Status models.TicketStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TicketStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
