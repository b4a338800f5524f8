package analytics

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// timeLayout is how timestamps are stored; it sorts lexically and is
// understood by SQLite's date functions.
const timeLayout = "2006-01-02 15:04:05"

// Store provides database operations for analytics.
type Store struct {
	db   *sql.DB
	salt string
}

// NewStore opens (creating if needed) the analytics database at dbPath and
// applies pending migrations.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create analytics dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migrate driver: %w", err)
	}
	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetSetting retrieves a setting value by key. Returns empty string if not found.
func (s *Store) GetSetting(key string) (string, error) {
	var val string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return val, err
}

// SetSetting stores a setting value by key (upsert).
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// SaveVisit stores a human page view.
func (s *Store) SaveVisit(ctx context.Context, v *Visit) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO visits
		(visitor_id, path, referrer, browser, os, device, locale, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.VisitorID, v.Path, v.Referrer, v.Browser, v.OS, v.Device, v.Locale,
		v.Timestamp.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save visit: %w", err)
	}
	return nil
}

// SaveBotVisit stores a crawler page view.
func (s *Store) SaveBotVisit(ctx context.Context, bv *BotVisit) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO bot_visits (bot_name, path, timestamp)
		VALUES (?, ?, ?)`, bv.BotName, bv.Path, bv.Timestamp.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save bot visit: %w", err)
	}
	return nil
}

// CleanupOldVisits deletes visits older than retentionDays.
func (s *Store) CleanupOldVisits(retentionDays int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(timeLayout)
	if _, err := s.db.Exec(`DELETE FROM visits WHERE timestamp < ?`, cutoff); err != nil {
		return fmt.Errorf("cleanup visits: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM bot_visits WHERE timestamp < ?`, cutoff); err != nil {
		return fmt.Errorf("cleanup bot visits: %w", err)
	}
	return nil
}

// StartCleanupScheduler runs CleanupOldVisits now and then every interval.
// The returned func stops the scheduler; it is safe to call more than once.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if err := s.CleanupOldVisits(retentionDays); err != nil {
				log.Printf("analytics: %v", err)
			}
			select {
			case <-ticker.C:
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
