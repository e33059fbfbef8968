package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"speed-backend/internal/domain"
	"speed-backend/internal/domain/models"
	"speed-backend/internal/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultMaxBytes is the per-document upload limit.
const DefaultMaxBytes int64 = 5 << 20

var allowedTypes = []string{"image/jpeg", "image/png", "application/pdf"}

// FileStore keeps verification documents on local disk under Root, one
// directory per driver.
type FileStore struct {
	Root     string
	MaxBytes int64
}

func NewFileStore(root string, maxBytes int64) FileStore {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return FileStore{Root: root, MaxBytes: maxBytes}
}

func (s FileStore) maxBytes() int64 {
	if s.MaxBytes > 0 {
		return s.MaxBytes
	}
	return DefaultMaxBytes
}

// Save reads r fully, checks its size and detected content type, and writes
// it under a fresh name. The returned ref's Path is relative to Root.
func (s FileStore) Save(_ context.Context, driverID int64, slot models.DocumentSlot, filename string, r io.Reader) (models.DocumentRef, error) {
	limit := s.maxBytes()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return models.DocumentRef{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return models.DocumentRef{}, domain.ValidationError{Field: string(slot), Msg: "file is empty"}
	}
	if int64(len(data)) > limit {
		return models.DocumentRef{}, domain.ValidationError{Field: string(slot), Msg: fmt.Sprintf("file exceeds %d MB", limit>>20)}
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedTypes...) {
		return models.DocumentRef{}, domain.ValidationError{Field: string(slot), Msg: "only JPG, PNG or PDF files are accepted"}
	}

	rel := filepath.Join(strconv.FormatInt(driverID, 10), fmt.Sprintf("%s_%s%s", slot, uuid.NewString(), mt.Extension()))
	full := filepath.Join(s.Root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return models.DocumentRef{}, fmt.Errorf("create upload dir: %w", err)
	}
	if err := writeFile(full, data); err != nil {
		return models.DocumentRef{}, err
	}

	name := strings.TrimSpace(filepath.Base(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = string(slot) + mt.Extension()
	}
	return models.DocumentRef{
		FileName:    utils.SafeFilenamePart(name),
		ContentType: mt.String(),
		Size:        int64(len(data)),
		Path:        filepath.ToSlash(rel),
		UploadedAt:  utils.NowUTC(),
	}, nil
}

// Remove deletes the stored file. A file that is already gone is not an
// error.
func (s FileStore) Remove(_ context.Context, ref models.DocumentRef) error {
	full, err := s.resolve(ref.Path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove document: %w", err)
	}
	return nil
}

// Open returns the stored file for reading.
func (s FileStore) Open(ref models.DocumentRef) (*os.File, error) {
	full, err := s.resolve(ref.Path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NotFoundError{Resource: "document", Err: err}
		}
		return nil, fmt.Errorf("open document: %w", err)
	}
	return f, nil
}

func (s FileStore) resolve(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if rel == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", domain.ValidationError{Field: "path", Msg: "invalid document path"}
	}
	return filepath.Join(s.Root, clean), nil
}

func writeFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write document: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close document: %w", err)
	}
	return nil
}
