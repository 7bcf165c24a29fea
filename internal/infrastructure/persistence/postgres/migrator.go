// internal/infrastructure/persistence/postgres/migrator.go
package postgres

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"mr-trader-bot/pkg/logger"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrator применяет встроенные SQL-миграции
type Migrator struct {
	db     *sqlx.DB
	source fs.FS
}

// Migration одна миграция
type Migration struct {
	ID          int
	Name        string
	Description string
	SQL         string
	Checksum    string
}

// MigrationStatus состояние миграции в базе
type MigrationStatus struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Applied   bool      `json:"applied"`
	AppliedAt time.Time `json:"applied_at,omitempty"`
	Status    string    `json:"status"`
}

type migrationRecord struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	Checksum  string    `db:"checksum"`
	AppliedAt time.Time `db:"applied_at"`
}

// NewMigrator создает мигратор со встроенными миграциями
func NewMigrator(db *sqlx.DB) *Migrator {
	return &Migrator{db: db, source: migrationFiles}
}

// Load читает и упорядочивает миграции
func (m *Migrator) Load() ([]Migration, error) {
	entries, err := fs.ReadDir(m.source, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		id, name, err := parseMigrationFilename(entry.Name())
		if err != nil {
			return nil, err
		}
		content, err := fs.ReadFile(m.source, "migrations/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, Migration{
			ID:          id,
			Name:        name,
			Description: extractDescription(string(content)),
			SQL:         string(content),
			Checksum:    calculateChecksum(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].ID < migrations[j].ID })
	for i, mig := range migrations {
		if mig.ID != i+1 {
			return nil, fmt.Errorf("missing migration with ID %d", i+1)
		}
	}
	return migrations, nil
}

// Migrate применяет все непримененные миграции
func (m *Migrator) Migrate(ctx context.Context) error {
	logger.Info("🚀 Starting database migrations...")

	if _, err := m.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		id INTEGER PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		checksum VARCHAR(64) NOT NULL,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := m.Load()
	if err != nil {
		return err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}

	count := 0
	for _, mig := range migrations {
		if record, ok := applied[mig.ID]; ok {
			if record.Checksum != mig.Checksum {
				return fmt.Errorf("checksum mismatch for migration %d: %s", mig.ID, mig.Name)
			}
			continue
		}
		if err := m.apply(ctx, mig); err != nil {
			return fmt.Errorf("failed to apply migration %d: %s: %w", mig.ID, mig.Name, err)
		}
		count++
	}

	if count > 0 {
		logger.Info("✅ Applied %d new migrations", count)
	} else {
		logger.Info("✅ Database is up to date")
	}
	return nil
}

// Status статус встроенных миграций
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	migrations, err := m.Load()
	if err != nil {
		return nil, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(migrations))
	for _, mig := range migrations {
		status := MigrationStatus{ID: mig.ID, Name: mig.Name, Status: "pending"}
		if record, ok := applied[mig.ID]; ok {
			status.Applied = true
			status.AppliedAt = record.AppliedAt
			status.Status = "applied"
			if record.Checksum != mig.Checksum {
				status.Status = "checksum_mismatch"
			}
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (m *Migrator) applied(ctx context.Context) (map[int]migrationRecord, error) {
	var records []migrationRecord
	if err := m.db.SelectContext(ctx, &records,
		`SELECT id, name, checksum, applied_at FROM schema_migrations ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}

	result := make(map[int]migrationRecord, len(records))
	for _, r := range records {
		result[r.ID] = r
	}
	return result, nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	logger.Info("📤 Applying migration: %03d %s (%s)", mig.ID, mig.Name, mig.Description)

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, mig.SQL); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (id, name, checksum) VALUES ($1, $2, $3)`,
		mig.ID, mig.Name, mig.Checksum); err != nil {
		return fmt.Errorf("failed to save migration record: %w", err)
	}
	return tx.Commit()
}

func parseMigrationFilename(filename string) (int, string, error) {
	base := strings.TrimSuffix(filename, ".sql")

	parts := strings.SplitN(base, "_", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("invalid migration filename format: %s (expected: 001_name.sql)", filename)
	}

	var id int
	if _, err := fmt.Sscanf(parts[0], "%d", &id); err != nil {
		return 0, "", fmt.Errorf("invalid migration ID in filename: %s", filename)
	}
	return id, strings.ReplaceAll(parts[1], "_", " "), nil
}

func extractDescription(sql string) string {
	for _, line := range strings.Split(sql, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-- Description:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "-- Description:"))
		}
	}
	return "No description"
}

func calculateChecksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
