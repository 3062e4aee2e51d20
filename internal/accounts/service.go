package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/ledgercat/internal/model"
)

// Path is the chart file location relative to the project root.
var Path = filepath.Join("accounts", "chart-of-accounts.csv")

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	entries    []model.ChartEntry
	byCategory map[string]model.ChartEntry
	accounts   map[string]bool
}

// NewService creates a Service from chart entries. Category lookup is
// case-insensitive; when a category repeats, the first entry wins.
func NewService(entries []model.ChartEntry) *Service {
	s := &Service{
		entries:    entries,
		byCategory: make(map[string]model.ChartEntry, len(entries)),
		accounts:   map[string]bool{key(model.CashAccount): true},
	}
	for _, e := range entries {
		k := key(e.Category)
		if _, ok := s.byCategory[k]; !ok {
			s.byCategory[k] = e
		}
		s.accounts[key(e.AccountName)] = true
	}
	return s
}

// Load reads the chart from a project root and returns a Service.
func Load(repoRoot string) (*Service, error) {
	return LoadFile(filepath.Join(repoRoot, Path))
}

// LoadFile reads a chart CSV from path.
func LoadFile(path string) (*Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	entries, err := ReadChart(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(entries), nil
}

// All returns all entries in file order.
func (s *Service) All() []model.ChartEntry {
	return s.entries
}

// Lookup returns the entry for a category label.
func (s *Service) Lookup(category string) (model.ChartEntry, bool) {
	e, ok := s.byCategory[key(category)]
	return e, ok
}

// Exists reports whether an account name is known. The cash account
// always exists.
func (s *Service) Exists(accountName string) bool {
	return s.accounts[key(accountName)]
}

// Categories returns the mapped category labels in file order.
func (s *Service) Categories() []string {
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Category)
	}
	return out
}

// Save writes the chart to accounts/chart-of-accounts.csv.
func (s *Service) Save(repoRoot string) error {
	path := filepath.Join(repoRoot, Path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteChart(f, s.entries); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
