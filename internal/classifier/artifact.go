package classifier

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SaveFile writes the model to path atomically via a temp file and rename.
func SaveFile(path string, p Predictor) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating model dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp model file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := p.Save(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing model file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing model file: %w", err)
	}
	return nil
}

// LoadFile reads a model from path. A missing or corrupt file yields an
// error wrapping ErrModelUnavailable.
func LoadFile(path string) (*NaiveBayes, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrModelUnavailable, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filepath.Base(path), err)
	}
	return m, nil
}
