package documents

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"study-backend/internal/extract"
	"study-backend/internal/shared/metrics"
	"study-backend/internal/shared/storage/object"
	"study-backend/internal/shared/telemetry"
)

const defaultMaxUploadBytes = 20 << 20

// Service contains business logic for documents.
type Service struct {
	Store          object.ObjectStore
	Repo           DocumentsRepo
	Guard          *Guard
	MaxUploadBytes int64
	now            func() time.Time
}

// NewService constructs a Service. maxUploadBytes <= 0 falls back to 20MB.
func NewService(store object.ObjectStore, repo DocumentsRepo, maxUploadBytes int64) *Service {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Service{
		Store:          store,
		Repo:           repo,
		Guard:          NewGuard(repo),
		MaxUploadBytes: maxUploadBytes,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Upload validates the extension, extracts text, archives the raw file and records the document.
func (s *Service) Upload(ctx context.Context, ownerEmail, originalName string, r io.Reader) (Document, error) {
	originalName = strings.TrimSpace(filepath.Base(originalName))
	if ownerEmail == "" || originalName == "" || originalName == "." {
		return Document{}, ErrInvalidInput
	}
	if _, err := extract.FormatFromName(originalName); err != nil {
		return Document{}, err
	}

	data, err := io.ReadAll(io.LimitReader(r, s.MaxUploadBytes+1))
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.MaxUploadBytes {
		return Document{}, ErrTooLarge
	}

	text, err := extract.ExtractTextFromBytes(ctx, data, originalName)
	if err != nil {
		return Document{}, fmt.Errorf("extract %s: %w", originalName, err)
	}

	filename := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))

	doc := Document{
		ID:           uuid.NewString(),
		OwnerEmail:   ownerEmail,
		Filename:     filename,
		OriginalName: originalName,
		Text:         text,
		SizeBytes:    int64(len(data)),
		CreatedAt:    s.now(),
	}

	if s.Store != nil {
		key, _, _, err := s.Store.Save(ctx, ownerEmail, filename, bytes.NewReader(data))
		if err != nil {
			return Document{}, fmt.Errorf("archive upload: %w", err)
		}
		doc.StorageKey = key
	}

	if err := s.Repo.CreateDocument(ctx, doc); err != nil {
		s.removeArchive(ctx, doc)
		return Document{}, fmt.Errorf("create document: %w", err)
	}

	metrics.IncDocumentsUploaded()
	telemetry.Info("document.uploaded", map[string]any{
		"user_email":    ownerEmail,
		"document":      filename,
		"original_name": originalName,
		"size_bytes":    doc.SizeBytes,
		"text_chars":    len([]rune(text)),
	})
	return doc, nil
}

// List returns the caller's documents, newest first.
func (s *Service) List(ctx context.Context, ownerEmail string) ([]Document, error) {
	if ownerEmail == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListDocuments(ctx, ownerEmail)
}

// Count returns how many documents the caller owns.
func (s *Service) Count(ctx context.Context, ownerEmail string) (int, error) {
	return s.Repo.CountDocuments(ctx, ownerEmail)
}

// Delete removes an owned document with its history and archived upload.
func (s *Service) Delete(ctx context.Context, ownerEmail, filename string) error {
	if _, err := s.Guard.Authorize(ctx, ownerEmail, filename); err != nil {
		return err
	}
	doc, err := s.Repo.DeleteDocument(ctx, ownerEmail, strings.TrimSpace(filename))
	if err != nil {
		return err
	}
	s.removeArchive(ctx, doc)
	metrics.IncDocumentsDeleted()
	telemetry.Info("document.deleted", map[string]any{
		"user_email": ownerEmail,
		"document":   doc.Filename,
	})
	return nil
}

// Text returns the stored text of an owned document.
func (s *Service) Text(ctx context.Context, ownerEmail, filename string) (string, error) {
	if _, err := s.Guard.Authorize(ctx, ownerEmail, filename); err != nil {
		return "", err
	}
	return s.Repo.GetDocumentText(ctx, ownerEmail, strings.TrimSpace(filename))
}

func (s *Service) removeArchive(ctx context.Context, doc Document) {
	if s.Store == nil || doc.StorageKey == "" {
		return
	}
	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		telemetry.Warn("document.archive_delete_failed", map[string]any{
			"document":    doc.Filename,
			"storage_key": doc.StorageKey,
			"error":       err,
		})
	}
}
