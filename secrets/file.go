package secrets

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSecretsDir is where Docker and Kubernetes mount secrets by default.
const DefaultSecretsDir = "/run/secrets"

// FileSource reads one file per key from a directory, the layout used by Docker
// secrets. A single trailing newline is stripped from each value.
type FileSource struct {
	// Dir defaults to DefaultSecretsDir when empty.
	Dir string

	// FS overrides the filesystem rooted at Dir; used in tests.
	FS fs.FS
}

// NewFileSource creates a FileSource reading from dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

// Name returns the source identifier.
func (s *FileSource) Name() string {
	return "files"
}

// Lookup reads the file named key. A missing file is an absent key.
func (s *FileSource) Lookup(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	data, err := fs.ReadFile(s.fsys(), key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		if errors.Is(err, fs.ErrPermission) {
			return "", false, NewSourceError(s.Name(), key, ErrAccessDenied)
		}
		return "", false, NewSourceError(s.Name(), key, err)
	}

	v := strings.TrimSuffix(string(data), "\n")
	v = strings.TrimSuffix(v, "\r")
	return v, true, nil
}

func (s *FileSource) fsys() fs.FS {
	if s.FS != nil {
		return s.FS
	}

	dir := s.Dir
	if dir == "" {
		dir = DefaultSecretsDir
	}
	return os.DirFS(filepath.Clean(dir))
}
