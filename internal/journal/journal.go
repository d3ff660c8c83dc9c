// Package journal persists a queryable history of trade checks in
// SQLite. Unlike the audit log it is optional and holds no integrity
// chain; it exists for the history CLI and ad-hoc review.
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS checks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id  TEXT NOT NULL,
	checked_at  TEXT NOT NULL,
	employee_id TEXT NOT NULL,
	ticker      TEXT NOT NULL,
	action      TEXT NOT NULL,
	decision    TEXT NOT NULL,
	confidence  REAL NOT NULL,
	reason      TEXT NOT NULL,
	advisor     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_checks_employee ON checks(employee_id);
`

// Check is one recorded trade-check outcome.
type Check struct {
	RequestID  string
	CheckedAt  time.Time
	EmployeeID string
	Ticker     string
	Action     string
	Decision   string
	Confidence float64
	Reason     string
	Advisor    string
}

// Journal wraps the SQL handle for easier swapping in tests.
type Journal struct {
	db *sql.DB
}

// Open opens (and creates if needed) the journal database at path.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, errors.New("journal path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite prefers a single writer.
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record inserts one check outcome.
func (j *Journal) Record(c Check) error {
	if c.CheckedAt.IsZero() {
		c.CheckedAt = time.Now().UTC()
	}
	_, err := j.db.Exec(`
		INSERT INTO checks
		(request_id, checked_at, employee_id, ticker, action, decision, confidence, reason, advisor)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.RequestID, c.CheckedAt.Format(time.RFC3339), c.EmployeeID,
		c.Ticker, c.Action, c.Decision, c.Confidence, c.Reason, c.Advisor,
	)
	return err
}

// History returns the most recent checks, optionally filtered by
// employee ID, newest first.
func (j *Journal) History(employeeID string, limit int) ([]Check, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT request_id, checked_at, employee_id, ticker, action, decision, confidence, reason, advisor
		FROM checks`
	args := []any{}
	if employeeID != "" {
		query += ` WHERE employee_id = ?`
		args = append(args, employeeID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Check
	for rows.Next() {
		var c Check
		var ts string
		if err := rows.Scan(&c.RequestID, &ts, &c.EmployeeID, &c.Ticker,
			&c.Action, &c.Decision, &c.Confidence, &c.Reason, &c.Advisor); err != nil {
			return nil, err
		}
		checkedAt, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			log.Printf("journal: skipping row with bad checked_at %q: %v", ts, err)
			continue
		}
		c.CheckedAt = checkedAt
		out = append(out, c)
	}
	return out, rows.Err()
}

// Close releases the underlying DB handle.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}
