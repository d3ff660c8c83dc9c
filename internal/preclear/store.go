// Package preclear manages pre-clearance requests filed when a trade
// check comes back REQUIRES_PRECLEARANCE. Requests live as one JSON
// file per key so compliance officers can resolve them from the CLI
// while the server keeps running. The decision engine never reads this
// store; decisions stay stateless.
package preclear

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
)

// validKey matches alphanumeric, dash, underscore, and dot characters only.
var validKey = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// validateKey rejects keys that could cause path traversal.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key must not be empty")
	}
	if strings.Contains(key, "..") {
		return fmt.Errorf("key must not contain '..'")
	}
	if !validKey.MatchString(key) {
		return fmt.Errorf("key contains invalid characters: only alphanumeric, dash, underscore, and dot are allowed")
	}
	return nil
}

// Key builds the store key for an employee/ticker pair.
func Key(employeeID, ticker string) string {
	return fmt.Sprintf("%s_%s", employeeID, strings.ToUpper(ticker))
}

// Status represents the state of a pre-clearance request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
	StatusExpired  Status = "expired"
)

// Request is a single pre-clearance request and its state.
type Request struct {
	Key        string     `json:"key"`
	EmployeeID string     `json:"employee_id"`
	Ticker     string     `json:"ticker"`
	Status     Status     `json:"status"`
	Reason     string     `json:"reason"`
	Conditions []string   `json:"conditions,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// Store manages pre-clearance request files on disk.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a Store backed by the given directory.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create preclearance directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// DefaultDir returns the default pre-clearance store directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "tradegate-pending")
	}
	return filepath.Join(home, ".tradegate", "pending")
}

// File creates a pending request. No-op if a request already exists for
// the key, so repeated checks of the same trade do not reset state.
func (s *Store) File(employeeID, ticker, reason string, conditions []string) error {
	key := Key(employeeID, ticker)
	if err := validateKey(key); err != nil {
		return fmt.Errorf("invalid preclearance key: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	if _, err := os.Stat(path); err == nil {
		return nil // already filed
	}

	r := Request{
		Key:        key,
		EmployeeID: employeeID,
		Ticker:     strings.ToUpper(ticker),
		Status:     StatusPending,
		Reason:     reason,
		Conditions: conditions,
		CreatedAt:  time.Now().UTC(),
	}
	return s.writeAtomic(path, r)
}

// Approve marks a request as approved. If validity > 0 the approval
// expires after that window.
func (s *Store) Approve(key string, validity time.Duration) error {
	if err := validateKey(key); err != nil {
		return fmt.Errorf("invalid preclearance key: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.read(key)
	if err != nil {
		return fmt.Errorf("preclearance request %q not found: %w", key, err)
	}

	r.Status = StatusApproved
	now := time.Now().UTC()
	r.ResolvedAt = &now
	if validity > 0 {
		exp := now.Add(validity)
		r.ExpiresAt = &exp
	}
	return s.writeAtomic(s.path(key), *r)
}

// Deny marks a request as denied.
func (s *Store) Deny(key string) error {
	if err := validateKey(key); err != nil {
		return fmt.Errorf("invalid preclearance key: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.read(key)
	if err != nil {
		return fmt.Errorf("preclearance request %q not found: %w", key, err)
	}

	r.Status = StatusDenied
	now := time.Now().UTC()
	r.ResolvedAt = &now
	return s.writeAtomic(s.path(key), *r)
}

// Check returns the current status of a request, flipping approved
// entries past their deadline to expired.
func (s *Store) Check(key string) (Status, error) {
	if err := validateKey(key); err != nil {
		return "", fmt.Errorf("invalid preclearance key: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.read(key)
	if err != nil {
		return "", fmt.Errorf("preclearance request %q not found", key)
	}

	if r.Status == StatusApproved && r.ExpiresAt != nil && time.Now().UTC().After(*r.ExpiresAt) {
		r.Status = StatusExpired
		_ = s.writeAtomic(s.path(key), *r)
		return StatusExpired, nil
	}
	return r.Status, nil
}

// List returns all requests in the store.
func (s *Store) List() ([]Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var requests []Request
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		r, err := s.read(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			continue
		}
		requests = append(requests, *r)
	}
	return requests, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Store) read(key string) (*Request, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, err
	}
	var r Request
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("corrupt preclearance file %s: %w", key, err)
	}
	return &r, nil
}

func (s *Store) writeAtomic(path string, r Request) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
