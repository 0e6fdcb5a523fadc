package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"swagplan/internal/models"

	"go.uber.org/zap"
)

// FileStore keeps the document as a pretty-printed JSON file
type FileStore struct {
	path string
	log  *zap.Logger
	now  func() time.Time
}

// NewFileStore creates a store backed by the file at path
func NewFileStore(path string, log *zap.Logger) *FileStore {
	return &FileStore{
		path: path,
		log:  log,
		now:  time.Now,
	}
}

// Path returns the backing file location
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the document. A missing file yields an empty document and a file
// holding invalid JSON is moved aside first. Any other read failure is returned
// so that no caller saves an empty document over the real one.
func (s *FileStore) Load(ctx context.Context) (*models.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Info("data file not found, starting with an empty document", zap.String("path", s.path))
		return models.NewDocument(), nil
	}
	if err != nil {
		s.log.Error("failed to read data file", zap.String("path", s.path), zap.Error(err))
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	doc := models.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		backup := fmt.Sprintf("%s.corrupt-%d", s.path, s.now().Unix())
		s.log.Error("data file is not valid JSON, moving it aside",
			zap.String("path", s.path),
			zap.String("backup", backup),
			zap.Error(err))
		if renameErr := os.Rename(s.path, backup); renameErr != nil {
			s.log.Error("failed to move corrupt data file", zap.Error(renameErr))
		}
		return models.NewDocument(), nil
	}
	doc.Normalize()
	return doc, nil
}

// Save replaces the file atomically via a temp file in the same directory
func (s *FileStore) Save(ctx context.Context, doc *models.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}

	s.log.Debug("data written", zap.String("path", s.path))
	return nil
}
