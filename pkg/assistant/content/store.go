package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"trade-assistant-be/internal/entity"
	"trade-assistant-be/internal/pkg/logger"
	"trade-assistant-be/internal/repository/contract"
	"trade-assistant-be/pkg/provider"
)

// Store is the content-addressed dedup layer in front of the content
// registry. For a given content hash at most one external id is ever
// minted; repeats are looked up, never re-uploaded.
type Store struct {
	registry provider.ContentRegistryProvider
	handles  contract.DocumentHandleRepository
	logger   logger.ILogger
}

func NewStore(
	registry provider.ContentRegistryProvider,
	handles contract.DocumentHandleRepository,
	sysLogger logger.ILogger,
) *Store {
	return &Store{
		registry: registry,
		handles:  handles,
		logger:   sysLogger,
	}
}

// StableName prefixes the display name with the content hash. Identity is
// the hash alone; the suffix only keeps provider-side listings readable.
func StableName(contentHash, displayName string) string {
	return contentHash + "-" + displayName
}

// RegisterOrReuse hashes the byte stream and resolves it to a document
// handle: local cache first, then the provider's authoritative listing,
// and only then a fresh upload. The cache row is written only after the
// external id is confirmed.
func (s *Store) RegisterOrReuse(ctx context.Context, r io.Reader, displayName string) (*entity.DocumentHandle, error) {
	// Spool to disk while hashing so large uploads never sit in memory twice
	tmp, err := os.CreateTemp("", "assistant-upload-*")
	if err != nil {
		return nil, fmt.Errorf("spool upload: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(hasher, tmp), r)
	if err != nil {
		return nil, fmt.Errorf("hash upload: %w", err)
	}
	contentHash := hex.EncodeToString(hasher.Sum(nil))
	stableName := StableName(contentHash, displayName)

	// 1. Fast local cache, keyed by hash so a repeat under any display name
	// resolves. A cache read failure degrades to the listing path instead of
	// failing the request.
	cached, err := s.handles.FindByContentHash(ctx, contentHash)
	if err != nil {
		s.logger.Warn("content_store", "dedup cache read failed, falling back to provider listing", map[string]interface{}{
			"content_hash": contentHash,
			"error":        err.Error(),
		})
	}
	if cached != nil {
		return cached, nil
	}

	// 2. Authoritative provider listing. Match on the hash prefix: the same
	// bytes may have been registered under a different display name.
	files, err := s.registry.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if strings.HasPrefix(f.Name, contentHash+"-") {
			handle := &entity.DocumentHandle{
				StableName:   f.Name,
				ContentHash:  contentHash,
				ExternalId:   f.ExternalId,
				OriginalName: displayName,
				SizeBytes:    size,
				RegisteredAt: time.Now(),
			}
			s.upsert(ctx, handle)
			return handle, nil
		}
	}

	// 3. Fresh upload
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload spool: %w", err)
	}
	externalId, err := s.registry.Upload(ctx, tmp, stableName)
	if err != nil {
		// No cache row without a confirmed external id
		return nil, err
	}
	handle := &entity.DocumentHandle{
		StableName:   stableName,
		ContentHash:  contentHash,
		ExternalId:   externalId,
		OriginalName: displayName,
		SizeBytes:    size,
		RegisteredAt: time.Now(),
	}
	s.upsert(ctx, handle)

	s.logger.Info("content_store", "registered new document", map[string]interface{}{
		"stable_name": stableName,
		"external_id": externalId,
		"size_bytes":  size,
	})
	return handle, nil
}

// upsert records the confirmed mapping. The external side already holds the
// file, so a cache write failure is logged rather than failing the request;
// a future request recovers it through the listing path.
func (s *Store) upsert(ctx context.Context, handle *entity.DocumentHandle) {
	if err := s.handles.Upsert(ctx, handle); err != nil {
		s.logger.Warn("content_store", "dedup cache upsert failed", map[string]interface{}{
			"stable_name": handle.StableName,
			"error":       err.Error(),
		})
	}
}
