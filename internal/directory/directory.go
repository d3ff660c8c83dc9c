// Package directory is the read-only employee directory. Records are
// loaded once from a JSON file (or the builtin seed roster) and never
// mutated afterward, so a Directory is safe for concurrent readers.
package directory

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/meridiancap/tradegate/internal/model"
)

// Directory indexes employee records by identifier.
type Directory struct {
	byID  map[string]*model.EmployeeRecord
	order []string // insertion order for stable listings
}

// roster is the on-disk JSON shape.
type roster struct {
	Employees []model.EmployeeRecord `json:"employees"`
}

// New builds a Directory from a slice of records. Duplicate IDs are an error.
func New(records []model.EmployeeRecord) (*Directory, error) {
	d := &Directory{byID: make(map[string]*model.EmployeeRecord, len(records))}
	for i := range records {
		rec := records[i]
		if rec.EmployeeID == "" {
			return nil, fmt.Errorf("record %d: empty employee_id", i)
		}
		if _, dup := d.byID[rec.EmployeeID]; dup {
			return nil, fmt.Errorf("duplicate employee_id %q", rec.EmployeeID)
		}
		d.byID[rec.EmployeeID] = &rec
		d.order = append(d.order, rec.EmployeeID)
	}
	return d, nil
}

// NewDefault creates a Directory with the builtin seed roster.
func NewDefault() *Directory {
	d, err := New(SeedEmployees)
	if err != nil {
		// Seed data is compiled in; a bad seed is a programming error.
		panic(fmt.Sprintf("directory: invalid seed roster: %v", err))
	}
	return d
}

// Load reads an employee roster from a JSON file. An empty path or a
// missing file falls back to the builtin seed roster.
func Load(path string) (*Directory, error) {
	if path == "" {
		return NewDefault(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDefault(), nil
		}
		return nil, fmt.Errorf("read employee roster: %w", err)
	}

	var r roster
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse employee roster %s: %w", path, err)
	}
	return New(r.Employees)
}

// Get returns the record for an employee ID, or nil if absent.
func (d *Directory) Get(employeeID string) *model.EmployeeRecord {
	return d.byID[employeeID]
}

// All returns every record in load order.
func (d *Directory) All() []*model.EmployeeRecord {
	out := make([]*model.EmployeeRecord, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out
}

// ListByTier returns all employees in the given tier, in load order.
func (d *Directory) ListByTier(tier int) []*model.EmployeeRecord {
	var out []*model.EmployeeRecord
	for _, id := range d.order {
		if rec := d.byID[id]; rec.Tier == tier {
			out = append(out, rec)
		}
	}
	return out
}

// Search matches employees by case-insensitive substring of name or ID.
// Results are sorted by employee ID for stable output.
func (d *Directory) Search(query string) []*model.EmployeeRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []*model.EmployeeRecord
	for _, rec := range d.byID {
		if strings.Contains(strings.ToLower(rec.Name), q) ||
			strings.Contains(strings.ToLower(rec.EmployeeID), q) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out
}

// Len returns the number of loaded records.
func (d *Directory) Len() int {
	return len(d.byID)
}
