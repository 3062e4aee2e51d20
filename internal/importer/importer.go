package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/ledgercat/internal/model"
)

// Parser converts a ledger source file into Transactions.
type Parser interface {
	Parse(r io.Reader) ([]model.Transaction, Stats, error)
	Format() string
}

// Stats counts rows that were skipped or repaired while parsing.
type Stats struct {
	Rows             int // transactions returned
	BlankRows        int // rows with no cell content, skipped
	DefaultedDates   int // unparseable dates replaced by the null date
	DefaultedAmounts int // unparseable debit/credit cells replaced by zero, or rounded to cents
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a ledger file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// ForPath returns the parser registered for the file's extension, or nil.
func (r *Registry) ForPath(path string) Parser {
	return r.Get(strings.TrimPrefix(filepath.Ext(path), "."))
}

// DefaultRegistry returns a registry with the xlsx and csv ledger parsers.
func DefaultRegistry(sheet string, cols Columns) *Registry {
	r := NewRegistry()
	r.Register(&XLSXParser{Sheet: sheet, Columns: cols})
	r.Register(&CSVParser{Columns: cols})
	return r
}

// ParseFile opens path and parses it with the parser matching its extension.
func (r *Registry) ParseFile(path string) ([]model.Transaction, Stats, error) {
	p := r.ForPath(path)
	if p == nil {
		return nil, Stats{}, fmt.Errorf("no parser for %s", filepath.Base(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	txns, stats, err := p.Parse(f)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return txns, stats, nil
}

// Scan returns ledger files (.csv, .xlsx) directly under dir.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv", ".xlsx":
		default:
			continue
		}
		if strings.HasPrefix(e.Name(), "~$") {
			continue // Excel lock file
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// processedDir is the subdirectory of the import dir for consumed ledgers.
const processedDir = "processed"

// MarkProcessed moves a file from dir to dir/processed/.
func MarkProcessed(dir, fileName string) error {
	src := filepath.Join(dir, fileName)
	dstDir := filepath.Join(dir, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
