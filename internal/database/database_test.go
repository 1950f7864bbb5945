package database

import (
	"path/filepath"
	"testing"

	"event-portal/internal/config"
	"event-portal/internal/models"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "portal.db"),
	}}

	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	for _, model := range Models() {
		if !db.Migrator().HasTable(model) {
			t.Errorf("expected table for %T", model)
		}
	}

	var seq models.Sequence
	if err := db.First(&seq, "name = ?", models.SequenceTicketCode).Error; err != nil {
		t.Fatalf("sequence not seeded: %v", err)
	}
	if seq.Value != 0 {
		t.Errorf("expected empty sequence, got %d", seq.Value)
	}
}

func TestSeedSequencesIsIdempotent(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "portal.db"),
	}}
	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	db.Model(&models.Sequence{}).Where("name = ?", models.SequenceTicketCode).Update("value", 7)

	if err := SeedSequences(db); err != nil {
		t.Fatalf("SeedSequences failed: %v", err)
	}

	var seq models.Sequence
	db.First(&seq, "name = ?", models.SequenceTicketCode)
	if seq.Value != 7 {
		t.Errorf("re-seeding must not reset the counter, got %d", seq.Value)
	}
}
