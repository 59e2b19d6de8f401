package csvfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/Artexxx/HR-Employees-CSV/internal/dataset"
)

type WriteMode string

const (
	// WriteTruncate rewrites the file in place. A crash mid-write leaves it truncated.
	WriteTruncate WriteMode = "truncate"
	// WriteAtomic writes a sibling temp file and renames it over the original.
	WriteAtomic WriteMode = "atomic"
)

type Store struct {
	path string
	mode WriteMode
	log  zerolog.Logger
}

func NewStore(path string, mode WriteMode, log zerolog.Logger) (*Store, error) {
	switch mode {
	case "":
		mode = WriteAtomic
	case WriteTruncate, WriteAtomic:
	default:
		return nil, fmt.Errorf("unknown write mode %q", mode)
	}

	return &Store{
		path: path,
		mode: mode,
		log:  log.With().Str("component", "csvStore").Str("path", path).Logger(),
	}, nil
}

// Load reads the whole file. A missing or malformed file is an error.
func (s *Store) Load(_ context.Context) (*dataset.Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer func() { _ = f.Close() }()

	table, err := dataset.ReadCSV(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("dataset.ReadCSV %s: %w", s.path, err)
	}

	return table, nil
}

// Save overwrites the whole file with the table, header first. In atomic mode
// every call writes its own temp file, so concurrent saves never share an inode
// and the last rename wins.
func (s *Store) Save(_ context.Context, table *dataset.Table) error {
	if s.mode == WriteTruncate {
		f, err := os.Create(s.path)
		if err != nil {
			return fmt.Errorf("os.Create: %w", err)
		}

		return s.writeFile(f, table)
	}

	f, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp: %w", err)
	}
	tmp := f.Name()

	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		return errors.Join(fmt.Errorf("chmod: %w", err), removeIfExists(tmp))
	}

	if err := s.writeFile(f, table); err != nil {
		return errors.Join(err, removeIfExists(tmp))
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Join(fmt.Errorf("os.Rename: %w", err), removeIfExists(tmp))
	}

	s.log.Debug().Int("rows", table.Len()).Msg("dataset saved")

	return nil
}

// writeFile encodes the table into f and closes it.
func (s *Store) writeFile(f *os.File, table *dataset.Table) error {
	w := bufio.NewWriter(f)
	if err := dataset.WriteCSV(w, table); err != nil {
		_ = f.Close()
		return err
	}

	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush: %w", err)
	}

	if s.mode == WriteAtomic {
		if err := f.Sync(); err != nil {
			_ = f.Close()
			return fmt.Errorf("fsync: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("os.Remove: %w", err)
	}

	return nil
}
