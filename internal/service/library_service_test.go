package service

import (
	"context"
	"testing"
	"time"

	"trade-assistant-be/internal/pkg/logger"
	"trade-assistant-be/internal/repository/memory"
	"trade-assistant-be/pkg/assistant/content"
	"trade-assistant-be/pkg/assistant/sessionindex"
	"trade-assistant-be/pkg/provider"

	"github.com/stretchr/testify/assert"
)

func newTestLibraryService(fp *fakeProvider) ILibraryService {
	nop := logger.NewNop()
	store := content.NewStore(fp, memory.NewDocumentHandleRepository(), nop)
	sessions := sessionindex.NewManager(fp, memory.NewSessionIndexRepository(), nop).
		WithWaitTimeout(50*time.Millisecond, time.Millisecond)
	return NewLibraryService(store, sessions, fp, fp, testConfig(), nop)
}

func TestLibraryIngestAttachesToConfiguredIndexes(t *testing.T) {
	fp := newFakeProvider()
	svc := newTestLibraryService(fp)

	res, err := svc.Ingest(context.Background(),
		formFiles(t, map[string]string{"code-of-practice.pdf": "library bytes"}))

	assert.NoError(t, err)
	assert.Len(t, res.Files, 1)
	assert.Equal(t, []string{"vs_library"}, res.LibraryIds)
	assert.Len(t, fp.contents["vs_library"], 1)
}

func TestLibraryIngestIsIdempotent(t *testing.T) {
	fp := newFakeProvider()
	svc := newTestLibraryService(fp)
	ctx := context.Background()

	files := map[string]string{"code-of-practice.pdf": "library bytes"}
	_, err := svc.Ingest(ctx, formFiles(t, files))
	assert.NoError(t, err)
	_, err = svc.Ingest(ctx, formFiles(t, files))
	assert.NoError(t, err)

	assert.Equal(t, 1, fp.uploadCalls, "repeat ingest of identical bytes must not re-upload")
}

func TestLibraryIngestRequiresFiles(t *testing.T) {
	svc := newTestLibraryService(newFakeProvider())

	_, err := svc.Ingest(context.Background(), nil)
	assert.Error(t, err)
}

func TestLibraryListFilesJoinsRegistryNames(t *testing.T) {
	fp := newFakeProvider()
	svc := newTestLibraryService(fp)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, formFiles(t, map[string]string{"code-of-practice.pdf": "library bytes"}))
	assert.NoError(t, err)

	files, err := svc.ListFiles(ctx)
	assert.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "vs_library", files[0].IndexId)
	assert.Contains(t, files[0].Name, "code-of-practice.pdf")
	assert.Equal(t, provider.ItemStatusCompleted, files[0].Status)
}
