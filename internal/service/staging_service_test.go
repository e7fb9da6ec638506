package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/groveboard/grove-backend/internal/common"
	"github.com/groveboard/grove-backend/internal/config"
	"github.com/groveboard/grove-backend/internal/domain"
)

func uploadCfg(t *testing.T) config.UploadConfig {
	t.Helper()
	return config.UploadConfig{
		Dir:          filepath.Join(t.TempDir(), "attachments"),
		StagingDir:   filepath.Join(t.TempDir(), "staging"),
		MaxFileSize:  1024,
		MaxTotalSize: 4096,
		MaxFiles:     3,
		AllowedExts:  []string{".txt", ".jpg"},
		StagingTTL:   config.Duration(time.Hour),
	}
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	assert.NoError(t, err)
	_, err = fw.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(int64(len(content)) + 4096)
	assert.NoError(t, err)
	return form.File["file"][0]
}

func TestStage_SavesFileAndMetadata(t *testing.T) {
	store := NewMemoryStagingStore()
	svc := NewStagingService(store, new(mockAttachmentRepo), uploadCfg(t))
	ctx := context.Background()

	staged, err := svc.Stage(ctx, 1, "post", fileHeader(t, "notes.txt", []byte("hello")))

	assert.NoError(t, err)
	assert.True(t, staged.Valid())
	assert.Equal(t, "notes.txt", staged.Filename)
	assert.Equal(t, int64(5), staged.Size)
	assert.Equal(t, "text/plain", staged.MimeType)
	assert.FileExists(t, staged.TempPath)

	listed, err := svc.List(ctx, 1, "post")
	assert.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestStage_DisallowedExtension_RecordedNotRejected(t *testing.T) {
	store := NewMemoryStagingStore()
	svc := NewStagingService(store, new(mockAttachmentRepo), uploadCfg(t))
	ctx := context.Background()

	staged, err := svc.Stage(ctx, 1, "post", fileHeader(t, "tool.exe", []byte("MZ")))

	// The file is staged so the user sees the problem in the listing;
	// promotion will refuse it.
	assert.NoError(t, err)
	assert.False(t, staged.Valid())
	assert.NotEmpty(t, staged.Errors)

	listed, _ := svc.List(ctx, 1, "post")
	assert.Len(t, listed, 1)
}

func TestStage_OversizeFile_Recorded(t *testing.T) {
	cfg := uploadCfg(t)
	cfg.MaxFileSize = 4
	svc := NewStagingService(NewMemoryStagingStore(), new(mockAttachmentRepo), cfg)

	staged, err := svc.Stage(context.Background(), 1, "post", fileHeader(t, "big.txt", []byte("too large")))

	assert.NoError(t, err)
	assert.False(t, staged.Valid())
}

func TestStage_MaxFilesQuota_Rejected(t *testing.T) {
	cfg := uploadCfg(t)
	cfg.MaxFiles = 1
	svc := NewStagingService(NewMemoryStagingStore(), new(mockAttachmentRepo), cfg)
	ctx := context.Background()

	_, err := svc.Stage(ctx, 1, "post", fileHeader(t, "one.txt", []byte("a")))
	assert.NoError(t, err)

	_, err = svc.Stage(ctx, 1, "post", fileHeader(t, "two.txt", []byte("b")))
	assert.ErrorIs(t, err, common.ErrStagingLimitExceeded)
}

func TestStage_TotalSizeQuota_Rejected(t *testing.T) {
	cfg := uploadCfg(t)
	cfg.MaxTotalSize = 8
	svc := NewStagingService(NewMemoryStagingStore(), new(mockAttachmentRepo), cfg)
	ctx := context.Background()

	_, err := svc.Stage(ctx, 1, "post", fileHeader(t, "one.txt", []byte("123456")))
	assert.NoError(t, err)

	_, err = svc.Stage(ctx, 1, "post", fileHeader(t, "two.txt", []byte("123456")))
	assert.ErrorIs(t, err, common.ErrStagingLimitExceeded)
}

func TestStage_ContextsAreIsolated(t *testing.T) {
	svc := NewStagingService(NewMemoryStagingStore(), new(mockAttachmentRepo), uploadCfg(t))
	ctx := context.Background()

	_, err := svc.Stage(ctx, 1, "post", fileHeader(t, "a.txt", []byte("a")))
	assert.NoError(t, err)
	_, err = svc.Stage(ctx, 1, "msg42", fileHeader(t, "b.txt", []byte("b")))
	assert.NoError(t, err)

	post, _ := svc.List(ctx, 1, "post")
	edit, _ := svc.List(ctx, 1, "msg42")
	assert.Len(t, post, 1)
	assert.Len(t, edit, 1)
	assert.Equal(t, "a.txt", post[0].Filename)
	assert.Equal(t, "b.txt", edit[0].Filename)
}

func TestDiscard_RemovesFileAndEntry(t *testing.T) {
	svc := NewStagingService(NewMemoryStagingStore(), new(mockAttachmentRepo), uploadCfg(t))
	ctx := context.Background()

	staged, err := svc.Stage(ctx, 1, "post", fileHeader(t, "a.txt", []byte("a")))
	assert.NoError(t, err)

	assert.NoError(t, svc.Discard(ctx, 1, "post", staged.Key))
	assert.NoFileExists(t, staged.TempPath)

	listed, _ := svc.List(ctx, 1, "post")
	assert.Empty(t, listed)
}

func TestDiscardAll_ClearsContext(t *testing.T) {
	svc := NewStagingService(NewMemoryStagingStore(), new(mockAttachmentRepo), uploadCfg(t))
	ctx := context.Background()

	s1, _ := svc.Stage(ctx, 1, "post", fileHeader(t, "a.txt", []byte("a")))
	s2, _ := svc.Stage(ctx, 1, "post", fileHeader(t, "b.txt", []byte("b")))

	assert.NoError(t, svc.DiscardAll(ctx, 1, "post"))
	assert.NoFileExists(t, s1.TempPath)
	assert.NoFileExists(t, s2.TempPath)

	listed, _ := svc.List(ctx, 1, "post")
	assert.Empty(t, listed)
}

func TestPromote_MovesFileAndCreatesRow(t *testing.T) {
	repo := new(mockAttachmentRepo)
	cfg := uploadCfg(t)
	svc := NewStagingService(NewMemoryStagingStore(), repo, cfg)
	ctx := context.Background()

	staged, err := svc.Stage(ctx, 1, "post", fileHeader(t, "photo.jpg", []byte("jpegdata")))
	assert.NoError(t, err)

	var created *domain.Attachment
	repo.On("Create", mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(0).(*domain.Attachment)
		created.ID = 7
	}).Return(nil)

	msg := &domain.Message{ID: 200, Approved: true}
	att, err := svc.Promote(ctx, staged, msg)

	assert.NoError(t, err)
	assert.Equal(t, 200, att.MessageID)
	assert.Equal(t, "photo.jpg", att.Filename)
	assert.True(t, att.Approved)
	assert.NoFileExists(t, staged.TempPath)
	assert.FileExists(t, filepath.Join(cfg.Dir, created.StoredPath))

	listed, _ := svc.List(ctx, 1, "post")
	assert.Empty(t, listed)
}

func TestPromote_UnapprovedMessage_AttachmentMirrorsFlag(t *testing.T) {
	repo := new(mockAttachmentRepo)
	svc := NewStagingService(NewMemoryStagingStore(), repo, uploadCfg(t))
	ctx := context.Background()

	staged, _ := svc.Stage(ctx, 1, "post", fileHeader(t, "photo.jpg", []byte("jpegdata")))
	repo.On("Create", mock.Anything).Return(nil)

	att, err := svc.Promote(ctx, staged, &domain.Message{ID: 200, Approved: false})

	assert.NoError(t, err)
	assert.False(t, att.Approved)
}

func TestPromote_InvalidStagedFile_Refused(t *testing.T) {
	repo := new(mockAttachmentRepo)
	svc := NewStagingService(NewMemoryStagingStore(), repo, uploadCfg(t))
	ctx := context.Background()

	staged, _ := svc.Stage(ctx, 1, "post", fileHeader(t, "tool.exe", []byte("MZ")))
	assert.False(t, staged.Valid())

	_, err := svc.Promote(ctx, staged, &domain.Message{ID: 200, Approved: true})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything)
	// The temp file survives so the entry can still be listed and discarded.
	assert.FileExists(t, staged.TempPath)
}

func TestPromote_RowInsertFails_TempFileRestored(t *testing.T) {
	repo := new(mockAttachmentRepo)
	svc := NewStagingService(NewMemoryStagingStore(), repo, uploadCfg(t))
	ctx := context.Background()

	staged, _ := svc.Stage(ctx, 1, "post", fileHeader(t, "photo.jpg", []byte("jpegdata")))
	repo.On("Create", mock.Anything).Return(assert.AnError)

	_, err := svc.Promote(ctx, staged, &domain.Message{ID: 200, Approved: true})

	assert.Error(t, err)
	assert.FileExists(t, staged.TempPath)

	// Entry still present, promotion can be retried.
	listed, _ := svc.List(ctx, 1, "post")
	assert.Len(t, listed, 1)
}

func TestMemoryStagingStore_RoundTrip(t *testing.T) {
	store := NewMemoryStagingStore()
	ctx := context.Background()

	staged := &domain.StagedAttachment{Key: "k1", MemberID: 1, Context: "post", Filename: "a.txt"}
	assert.NoError(t, store.Put(ctx, staged))

	got, err := store.Get(ctx, 1, "post", "k1")
	assert.NoError(t, err)
	assert.Equal(t, "a.txt", got.Filename)

	_, err = store.Get(ctx, 1, "post", "missing")
	assert.ErrorIs(t, err, common.ErrStagedFileNotFound)

	assert.NoError(t, store.Remove(ctx, 1, "post", "k1"))
	listed, _ := store.List(ctx, 1, "post")
	assert.Empty(t, listed)
}

func TestStage_CreatesStagingDir(t *testing.T) {
	cfg := uploadCfg(t)
	// StagingDir does not exist yet; Stage must create it.
	_, err := os.Stat(cfg.StagingDir)
	assert.True(t, os.IsNotExist(err))

	svc := NewStagingService(NewMemoryStagingStore(), new(mockAttachmentRepo), cfg)
	_, err = svc.Stage(context.Background(), 1, "post", fileHeader(t, "a.txt", []byte("a")))

	assert.NoError(t, err)
	assert.DirExists(t, cfg.StagingDir)
}
