package services

import (
	"context"
	"log"

	"event-portal/internal/models"
	"event-portal/internal/repository"
)

// AuditLogger writes the admin action trail
type AuditLogger struct {
	repo *repository.Repository
}

func NewAuditLogger(repo *repository.Repository) *AuditLogger {
	return &AuditLogger{repo: repo}
}

// LogAdminAction records an admin action. Failures are logged, never returned.
func (a *AuditLogger) LogAdminAction(ctx context.Context, adminID uint, action, resourceType, resourceID string, details models.JSONB) {
	entry := &models.AdminLog{
		AdminID:      adminID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}
	if err := a.repo.CreateAdminLog(ctx, entry); err != nil {
		log.Printf("failed to write admin log %s for admin %d: %v", action, adminID, err)
	}
}
