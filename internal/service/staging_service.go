package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/groveboard/grove-backend/internal/common"
	"github.com/groveboard/grove-backend/internal/config"
	"github.com/groveboard/grove-backend/internal/domain"
	"github.com/groveboard/grove-backend/internal/repository"
)

// StagingService holds uploaded files for a compose session until the
// owning message exists, then promotes them into permanent attachments.
type StagingService interface {
	Stage(ctx context.Context, memberID int, contextKey string, file *multipart.FileHeader) (*domain.StagedAttachment, error)
	List(ctx context.Context, memberID int, contextKey string) ([]*domain.StagedAttachment, error)
	Discard(ctx context.Context, memberID int, contextKey, key string) error
	DiscardAll(ctx context.Context, memberID int, contextKey string) error
	// Promote binds a staged file to a message: the temp file moves into
	// permanent storage and the Attachment row is created with the
	// message's approval flag. Files with validation errors are never
	// promoted.
	Promote(ctx context.Context, staged *domain.StagedAttachment, msg *domain.Message) (*domain.Attachment, error)
}

type stagingService struct {
	store StagingStore
	repo  repository.AttachmentRepository
	cfg   config.UploadConfig
}

// NewStagingService creates a new StagingService
func NewStagingService(store StagingStore, repo repository.AttachmentRepository, cfg config.UploadConfig) StagingService {
	return &stagingService{store: store, repo: repo, cfg: cfg}
}

// Stage saves the upload to the staging directory and records its
// metadata. Per-file validation problems are recorded on the entry
// rather than rejecting the upload; quota violations reject outright.
func (s *stagingService) Stage(ctx context.Context, memberID int, contextKey string, file *multipart.FileHeader) (*domain.StagedAttachment, error) {
	existing, err := s.store.List(ctx, memberID, contextKey)
	if err != nil {
		return nil, err
	}
	if len(existing) >= s.cfg.MaxFiles {
		return nil, common.ErrStagingLimitExceeded
	}
	var total int64
	for _, att := range existing {
		total += att.Size
	}
	if total+file.Size > s.cfg.MaxTotalSize {
		return nil, common.ErrStagingLimitExceeded
	}

	staged := &domain.StagedAttachment{
		Key:      uuid.NewString(),
		MemberID: memberID,
		Context:  contextKey,
		Filename: filepath.Base(file.Filename),
		Size:     file.Size,
		MimeType: detectContentType(filepath.Ext(file.Filename)),
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !s.extAllowed(ext) {
		staged.Errors = append(staged.Errors, fmt.Sprintf("file type not allowed: %s", ext))
	}
	if file.Size > s.cfg.MaxFileSize {
		staged.Errors = append(staged.Errors, fmt.Sprintf("file exceeds %d bytes", s.cfg.MaxFileSize))
	}

	if err := os.MkdirAll(s.cfg.StagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	staged.TempPath = filepath.Join(s.cfg.StagingDir, staged.Key+ext)

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(staged.TempPath)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(staged.TempPath)
		return nil, fmt.Errorf("save upload: %w", err)
	}

	if err := s.store.Put(ctx, staged); err != nil {
		os.Remove(staged.TempPath)
		return nil, err
	}

	return staged, nil
}

func (s *stagingService) List(ctx context.Context, memberID int, contextKey string) ([]*domain.StagedAttachment, error) {
	return s.store.List(ctx, memberID, contextKey)
}

// Discard deletes the temp file and removes the entry. Used for explicit
// user deletion and for cleanup on error paths.
func (s *stagingService) Discard(ctx context.Context, memberID int, contextKey, key string) error {
	staged, err := s.store.Get(ctx, memberID, contextKey, key)
	if err != nil {
		return err
	}
	if staged.TempPath != "" {
		os.Remove(staged.TempPath)
	}
	return s.store.Remove(ctx, memberID, contextKey, key)
}

func (s *stagingService) DiscardAll(ctx context.Context, memberID int, contextKey string) error {
	staged, err := s.store.List(ctx, memberID, contextKey)
	if err != nil {
		return err
	}
	for _, att := range staged {
		if att.TempPath != "" {
			os.Remove(att.TempPath)
		}
	}
	return s.store.RemoveAll(ctx, memberID, contextKey)
}

func (s *stagingService) Promote(ctx context.Context, staged *domain.StagedAttachment, msg *domain.Message) (*domain.Attachment, error) {
	if !staged.Valid() {
		return nil, fmt.Errorf("staged file %s has validation errors", staged.Filename)
	}

	yearMonth := time.Now().Format("200601")
	dirPath := filepath.Join(s.cfg.Dir, yearMonth)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return nil, fmt.Errorf("create attachment dir: %w", err)
	}

	ext := filepath.Ext(staged.TempPath)
	storedName := fmt.Sprintf("%d_%s%s", msg.ID, staged.Key, ext)
	storedPath := filepath.Join(dirPath, storedName)

	if err := os.Rename(staged.TempPath, storedPath); err != nil {
		return nil, fmt.Errorf("move staged file: %w", err)
	}

	att := &domain.Attachment{
		MessageID:  msg.ID,
		Filename:   staged.Filename,
		StoredPath: filepath.Join(yearMonth, storedName),
		FileSize:   staged.Size,
		MimeType:   staged.MimeType,
		Approved:   msg.Approved,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(att); err != nil {
		// Put the file back so the staging entry stays consistent and
		// the promotion can be retried.
		os.Rename(storedPath, staged.TempPath)
		return nil, err
	}

	if err := s.store.Remove(ctx, staged.MemberID, staged.Context, staged.Key); err != nil {
		return att, nil
	}
	return att, nil
}

func (s *stagingService) extAllowed(ext string) bool {
	for _, allowed := range s.cfg.AllowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// detectContentType returns content type from file extension
func detectContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	case ".zip":
		return "application/zip"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
