package cardimport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/darolishes/bondbridge/internal/entities"
)

// ErrSourceCancelled is returned by a FileSource when the user explicitly
// cancelled the file pick. The orchestrator maps it to a soft FileError.
var ErrSourceCancelled = errors.New("file selection cancelled")

// FileSource produces the raw payload for one import attempt. Platform
// file pickers and drag-drop adapters implement this on the caller side.
type FileSource interface {
	// Read resolves exactly once with the raw bytes or an error.
	Read(ctx context.Context) ([]byte, error)
	// Kind labels the source for session records.
	Kind() entities.SourceKind
	// Name describes the source for logs and session records.
	Name() string
}

// FilePathSource reads the payload from a file on disk.
type FilePathSource struct {
	Path string
}

// NewFileSource creates a FileSource over a filesystem path.
func NewFileSource(path string) *FilePathSource {
	return &FilePathSource{Path: path}
}

func (s *FilePathSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	return data, nil
}

func (s *FilePathSource) Kind() entities.SourceKind {
	return entities.SourceKindFile
}

func (s *FilePathSource) Name() string {
	return filepath.Base(s.Path)
}

// TextSource carries an already-read payload, e.g. pasted text or an HTTP
// request body.
type TextSource struct {
	Label string
	Data  []byte
	Via   entities.SourceKind
}

// NewTextSource wraps in-memory payload bytes as a FileSource.
func NewTextSource(label string, data []byte) *TextSource {
	return &TextSource{Label: label, Data: data, Via: entities.SourceKindText}
}

func (s *TextSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Data, nil
}

func (s *TextSource) Kind() entities.SourceKind {
	if s.Via != "" {
		return s.Via
	}
	return entities.SourceKindText
}

func (s *TextSource) Name() string {
	return s.Label
}

var (
	_ FileSource = (*FilePathSource)(nil)
	_ FileSource = (*TextSource)(nil)
)
