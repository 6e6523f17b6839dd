// Package audit keeps an append-only record of every mutating operation:
// who ran what against which VPC or subnet, with what outcome. Reads of
// the inventory are not audited.
package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"grimm.is/vpcctl/internal/clock"
)

// Event represents a single audit log entry.
type Event struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	User      string         `json:"user"`
	Action    string         `json:"action"`
	Resource  string         `json:"resource"`
	Details   map[string]any `json:"details,omitempty"`
	Status    int            `json:"status"`
}

// Status values.
const (
	StatusSuccess = 0
	StatusFailure = 1
)

// Store provides persistent storage for audit events.
type Store struct {
	mu            sync.RWMutex
	db            *sql.DB
	clk           clock.Clock
	retentionDays int
}

// NewStore creates a new audit store at the given path.
func NewStore(dbPath string, retentionDays int) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_events (
			id TEXT PRIMARY KEY,
			timestamp DATETIME NOT NULL,
			user TEXT NOT NULL,
			action TEXT NOT NULL,
			resource TEXT NOT NULL,
			details TEXT,
			status INTEGER DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_events(timestamp);
		CREATE INDEX IF NOT EXISTS idx_audit_action ON audit_events(action);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create audit table: %w", err)
	}

	if retentionDays <= 0 {
		retentionDays = 90 // Default 90 days
	}

	return &Store{
		db:            db,
		clk:           &clock.RealClock{},
		retentionDays: retentionDays,
	}, nil
}

// SetClock replaces the time source (tests).
func (s *Store) SetClock(c clock.Clock) {
	s.clk = c
}

// Record persists one audit event. The id and timestamp are filled in.
func (s *Store) Record(action, resource string, details map[string]any, status int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var detailsJSON []byte
	if details != nil {
		var err error
		detailsJSON, err = json.Marshal(details)
		if err != nil {
			detailsJSON = []byte("{}")
		}
	}

	user := os.Getenv("SUDO_USER")
	if user == "" {
		user = os.Getenv("USER")
	}
	if user == "" {
		user = "root"
	}

	_, err := s.db.Exec(`
		INSERT INTO audit_events (id, timestamp, user, action, resource, details, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), s.clk.Now().UTC(), user, action, resource, string(detailsJSON), status)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Query returns events in [start, end], optionally filtered by action,
// newest first.
func (s *Store) Query(start, end time.Time, action string, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, timestamp, user, action, resource, details, status
		FROM audit_events WHERE timestamp >= ? AND timestamp <= ?`
	args := []any{start, end}

	if action != "" {
		query += " AND action = ?"
		args = append(args, action)
	}

	query += " ORDER BY timestamp DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var evt Event
		var detailsJSON sql.NullString

		err := rows.Scan(&evt.ID, &evt.Timestamp, &evt.User, &evt.Action,
			&evt.Resource, &detailsJSON, &evt.Status)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}

		if detailsJSON.Valid && detailsJSON.String != "" {
			json.Unmarshal([]byte(detailsJSON.String), &evt.Details)
		}

		events = append(events, evt)
	}

	return events, rows.Err()
}

// Prune removes events older than the retention period.
func (s *Store) Prune() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clk.Now().AddDate(0, 0, -s.retentionDays)
	result, err := s.db.Exec("DELETE FROM audit_events WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune audit events: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
