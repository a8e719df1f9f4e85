package services

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// SupportedResumeExtensions lists the upload types the service accepts.
var SupportedResumeExtensions = []string{".pdf", ".docx", ".doc", ".txt"}

// UploadFile is a resume file received from a client.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Empty reports whether there is no usable file.
func (f UploadFile) Empty() bool {
	return strings.TrimSpace(f.Name) == "" || len(f.Data) == 0
}

func IsSupportedResumeFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedResumeExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// StorageKey builds "<owner>/<unix-millis>_<name>" with whitespace in the
// file name replaced by underscores.
func StorageKey(ownerID uuid.UUID, name string, now time.Time) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, filepath.Base(name))
	return fmt.Sprintf("%s/%d_%s", ownerID, now.UnixMilli(), clean)
}

// FileStore persists uploads and returns a publicly readable URL.
type FileStore interface {
	Store(ctx context.Context, file UploadFile, ownerID uuid.UUID) (string, error)
}

type localFileStore struct {
	uploadPath    string
	publicBaseURL string
	now           func() time.Time
}

// NewLocalFileStore stores files under uploadPath. URLs are publicBaseURL
// joined with the storage key.
func NewLocalFileStore(uploadPath, publicBaseURL string) FileStore {
	return &localFileStore{
		uploadPath:    uploadPath,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           time.Now,
	}
}

// Store implements FileStore.
func (s *localFileStore) Store(ctx context.Context, file UploadFile, ownerID uuid.UUID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := StorageKey(ownerID, file.Name, s.now())
	filePath := filepath.Join(s.uploadPath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	if err := os.WriteFile(filePath, file.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return s.publicBaseURL + "/" + path.Clean(key), nil
}
