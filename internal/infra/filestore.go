package infra

// filestore.go — document storage collaborator.
// The workflow treats stored files as opaque URLs; this implementation keeps
// them on local disk under a per-registration directory. Swapping in S3 or
// similar only requires another FileStore implementation.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StoredFile is what the workflow records about an upload.
type StoredFile struct {
	URL      string
	Size     int64
	MimeType string
}

// FileStore stores and retrieves uploaded documents.
type FileStore interface {
	Store(registrationID uuid.UUID, filename, mimeType string, r io.Reader) (*StoredFile, error)
	Fetch(url string) (io.ReadCloser, error)
}

type localFileStore struct {
	root string
}

// NewLocalFileStore creates the storage root if needed.
func NewLocalFileStore(root string) (FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create root: %w", err)
	}
	return &localFileStore{root: root}, nil
}

func (s *localFileStore) Store(registrationID uuid.UUID, filename, mimeType string, r io.Reader) (*StoredFile, error) {
	dir := filepath.Join(s.root, registrationID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create dir: %w", err)
	}

	// Prefix with a fresh UUID so repeated uploads of the same filename never collide.
	name := uuid.NewString() + "_" + sanitizeFilename(filename)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("filestore: create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("filestore: write file: %w", err)
	}

	return &StoredFile{
		URL:      "file://" + path,
		Size:     size,
		MimeType: mimeType,
	}, nil
}

func (s *localFileStore) Fetch(url string) (io.ReadCloser, error) {
	path := strings.TrimPrefix(url, "file://")
	// Refuse paths outside the storage root.
	abs, err := filepath.Abs(path)
	if err != nil || !strings.HasPrefix(abs, s.root) {
		return nil, fmt.Errorf("filestore: invalid url %q", url)
	}
	return os.Open(abs)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
