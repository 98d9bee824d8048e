// Package filestore keeps each user's project document in a JSON file.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/dechenique1/fgr/internal/repository"
)

const (
	fileSuffix = "_projects.json"
	// Files written by the earlier tool; read when no current file exists.
	legacySuffix = "_proyectos.json"
)

// Store implements repository.DocumentRepository on a directory.
type Store struct {
	fs  afero.Fs
	dir string
}

// New returns a store rooted at dir on the OS filesystem.
func New(dir string) *Store {
	return NewWithFs(afero.NewOsFs(), dir)
}

// NewWithFs returns a store over an arbitrary filesystem.
func NewWithFs(fsys afero.Fs, dir string) *Store {
	return &Store{fs: fsys, dir: dir}
}

// Path returns the document path for a tenant.
func (s *Store) Path(tenantID string) string {
	return filepath.Join(s.dir, FileName(tenantID))
}

// FileName maps a tenant to a safe file name. Distinct tenants always map
// to distinct names.
func FileName(tenantID string) string {
	return encodeTenant(tenantID) + fileSuffix
}

// Load reads the tenant's document.
func (s *Store) Load(ctx context.Context, tenantID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(tenantID) == "" {
		return nil, repository.ErrInvalidInput
	}

	data, err := afero.ReadFile(s.fs, s.Path(tenantID))
	if errors.Is(err, fs.ErrNotExist) && legacyName(tenantID) {
		data, err = afero.ReadFile(s.fs, filepath.Join(s.dir, tenantID+legacySuffix))
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("document for %q: %w", tenantID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return data, nil
}

// Save writes the document to a temporary file and renames it over the
// previous one so readers never see a partial write.
func (s *Store) Save(ctx context.Context, tenantID string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(tenantID) == "" {
		return repository.ErrInvalidInput
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, s.dir, ".tmp-"+encodeTenant(tenantID)+"-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("writing document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("syncing document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("closing document: %w", err)
	}
	if err := s.fs.Rename(tmpName, s.Path(tenantID)); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("replacing document: %w", err)
	}
	return nil
}

// encodeTenant keeps ASCII letters, digits and '-' and writes every other
// byte as '_' followed by two hex digits.
func encodeTenant(tenantID string) string {
	var b strings.Builder
	for i := 0; i < len(tenantID); i++ {
		c := tenantID[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '-':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "_%02x", c)
		}
	}
	return b.String()
}

// The earlier tool used the raw user name; only single path elements are
// looked up.
func legacyName(tenantID string) bool {
	return tenantID != "." && tenantID != ".." && !strings.ContainsAny(tenantID, "/\\\x00")
}
