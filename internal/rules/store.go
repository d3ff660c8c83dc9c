// Package rules is the read-only policy text store. Each firm's
// compliance manual lives in <slug>_rules.md under a rules directory;
// a builtin manual for Meridian Capital backs the store when no
// directory is configured.
package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store looks up firm compliance-rule text by firm name.
type Store struct {
	byFirm map[string]string // slug → rules text
}

// Slug normalizes a firm name to its rules-file key: lower-case,
// spaces to underscores, "&" to "and".
func Slug(firm string) string {
	s := strings.ToLower(strings.TrimSpace(firm))
	s = strings.ReplaceAll(s, "&", "and")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

// NewDefault creates a Store holding only the builtin Meridian manual.
func NewDefault() *Store {
	return &Store{byFirm: map[string]string{
		Slug(DefaultFirm): DefaultRules,
	}}
}

// Load reads every *_rules.md file from dir. An empty or missing
// directory falls back to the builtin manual.
func Load(dir string) (*Store, error) {
	if dir == "" {
		return NewDefault(), nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDefault(), nil
		}
		return nil, fmt.Errorf("read rules directory: %w", err)
	}

	s := &Store{byFirm: make(map[string]string)}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, "_rules.md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read rules file %s: %w", name, err)
		}
		slug := strings.TrimSuffix(name, "_rules.md")
		s.byFirm[slug] = string(data)
	}

	if len(s.byFirm) == 0 {
		return NewDefault(), nil
	}
	return s, nil
}

// Rules returns the compliance manual for a firm. A firm with no manual
// yields a "no rules on file" sentinel text rather than an error: the
// reasoning context degrades, the check does not fail.
func (s *Store) Rules(firm string) string {
	if text, ok := s.byFirm[Slug(firm)]; ok {
		return text
	}
	return fmt.Sprintf("No rules on file for %s. Expected %s_rules.md.", firm, Slug(firm))
}

// Has reports whether a manual exists for the firm.
func (s *Store) Has(firm string) bool {
	_, ok := s.byFirm[Slug(firm)]
	return ok
}

// Firms lists the slugs with a manual on file, sorted.
func (s *Store) Firms() []string {
	out := make([]string, 0, len(s.byFirm))
	for slug := range s.byFirm {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}
