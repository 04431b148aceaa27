package sessionindex

import (
	"context"
	"fmt"
	"testing"
	"time"

	"trade-assistant-be/internal/entity"
	"trade-assistant-be/internal/pkg/logger"
	"trade-assistant-be/internal/repository/memory"
	"trade-assistant-be/pkg/provider"
)

// fakeIndexes keeps index contents in memory. Attached items report
// completed immediately unless listed in pendingIds.
type fakeIndexes struct {
	nextId      int
	contents    map[string][]provider.IndexItem
	pendingIds  map[string]bool
	createCalls int
	attachCalls int
	attachErr   error
}

func newFakeIndexes() *fakeIndexes {
	return &fakeIndexes{
		contents:   make(map[string][]provider.IndexItem),
		pendingIds: make(map[string]bool),
	}
}

func (f *fakeIndexes) CreateIndex(_ context.Context, name string, _ time.Duration) (string, error) {
	f.createCalls++
	f.nextId++
	id := fmt.Sprintf("vs_%d", f.nextId)
	f.contents[id] = nil
	return id, nil
}

func (f *fakeIndexes) ListItems(_ context.Context, indexId string) ([]provider.IndexItem, error) {
	items, ok := f.contents[indexId]
	if !ok {
		return nil, provider.ErrNotFound
	}
	return append([]provider.IndexItem(nil), items...), nil
}

func (f *fakeIndexes) AttachItem(_ context.Context, indexId, externalId string) error {
	f.attachCalls++
	if f.attachErr != nil {
		return f.attachErr
	}
	if _, ok := f.contents[indexId]; !ok {
		return provider.ErrNotFound
	}
	status := provider.ItemStatusCompleted
	if f.pendingIds[externalId] {
		status = provider.ItemStatusInProgress
	}
	f.contents[indexId] = append(f.contents[indexId], provider.IndexItem{
		ExternalId: externalId,
		Status:     status,
	})
	return nil
}

func newTestManager(indexes *fakeIndexes) *Manager {
	return NewManager(indexes, memory.NewSessionIndexRepository(), logger.NewNop()).
		WithWaitTimeout(50*time.Millisecond, time.Millisecond)
}

func handles(ids ...string) []*entity.DocumentHandle {
	out := make([]*entity.DocumentHandle, 0, len(ids))
	for _, id := range ids {
		out = append(out, &entity.DocumentHandle{ExternalId: id})
	}
	return out
}

func TestEnsureIndexForReusesWithinTTL(t *testing.T) {
	indexes := newFakeIndexes()
	m := newTestManager(indexes)
	ctx := context.Background()

	first, err := m.EnsureIndexFor(ctx, "user-1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.EnsureIndexFor(ctx, "user-1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Errorf("index ids differ within TTL: %q vs %q", first, second)
	}
	if indexes.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1", indexes.createCalls)
	}
}

func TestEnsureIndexForRecreatesAfterExpiry(t *testing.T) {
	indexes := newFakeIndexes()
	pointers := memory.NewSessionIndexRepository()
	m := NewManager(indexes, pointers, logger.NewNop()).
		WithWaitTimeout(50*time.Millisecond, time.Millisecond)
	ctx := context.Background()

	first, err := m.EnsureIndexFor(ctx, "user-1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	// Backdate the pointer past the TTL
	if err := pointers.Put(ctx, &entity.SessionIndex{
		ScopeKey:   "user-1",
		IndexId:    first,
		LastUsedAt: time.Now().Add(-2 * time.Hour),
	}); err != nil {
		t.Fatal(err)
	}

	second, err := m.EnsureIndexFor(ctx, "user-1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if second == first {
		t.Error("expired index was reused")
	}
	if indexes.createCalls != 2 {
		t.Errorf("createCalls = %d, want 2", indexes.createCalls)
	}
}

func TestEnsureIndexForIsolatesScopes(t *testing.T) {
	indexes := newFakeIndexes()
	m := newTestManager(indexes)
	ctx := context.Background()

	a, _ := m.EnsureIndexFor(ctx, "user-a", time.Hour)
	b, _ := m.EnsureIndexFor(ctx, "user-b", time.Hour)

	if a == b {
		t.Errorf("scopes share an index: %q", a)
	}
}

func TestAttachIsIdempotent(t *testing.T) {
	indexes := newFakeIndexes()
	m := newTestManager(indexes)
	ctx := context.Background()

	indexId, err := m.EnsureIndexFor(ctx, "user-1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	attached, activeId, err := m.Attach(ctx, "user-1", time.Hour, indexId, handles("file_a", "file_b"))
	if err != nil {
		t.Fatal(err)
	}
	if len(attached) != 2 || activeId != indexId {
		t.Fatalf("attached = %v, activeId = %q", attached, activeId)
	}
	firstCalls := indexes.attachCalls

	// Repeat attach: the listing resolves both, no new attach calls.
	attached, _, err = m.Attach(ctx, "user-1", time.Hour, indexId, handles("file_a", "file_b"))
	if err != nil {
		t.Fatal(err)
	}
	if len(attached) != 2 {
		t.Errorf("attached = %v, want both handles", attached)
	}
	if indexes.attachCalls != firstCalls {
		t.Errorf("attachCalls grew from %d to %d on repeat", firstCalls, indexes.attachCalls)
	}
}

func TestAttachRecreatesVanishedIndexOnce(t *testing.T) {
	indexes := newFakeIndexes()
	m := newTestManager(indexes)
	ctx := context.Background()

	// Stale pointer to an index the provider no longer knows.
	attached, activeId, err := m.Attach(ctx, "user-1", time.Hour, "vs_gone", handles("file_a"))
	if err != nil {
		t.Fatalf("recreate-and-retry failed: %v", err)
	}
	if activeId == "vs_gone" {
		t.Error("activeId still points at the vanished index")
	}
	if len(attached) != 1 || attached[0] != "file_a" {
		t.Errorf("attached = %v", attached)
	}
	if indexes.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1", indexes.createCalls)
	}
}

func TestAttachDoesNotRetryPermanentErrors(t *testing.T) {
	indexes := newFakeIndexes()
	indexes.attachErr = provider.ErrAlreadyAttached
	m := newTestManager(indexes)
	ctx := context.Background()

	indexId, err := m.EnsureIndexFor(ctx, "user-1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	createCallsBefore := indexes.createCalls

	// AlreadyAttached is resolved in place, never by recreating the index.
	attached, _, err := m.Attach(ctx, "user-1", time.Hour, indexId, handles("file_a"))
	if err != nil {
		t.Fatal(err)
	}
	if len(attached) != 1 {
		t.Errorf("attached = %v", attached)
	}
	if indexes.createCalls != createCallsBefore {
		t.Errorf("index recreated for a permanent error")
	}
}

func TestAttachExcludesTimedOutItems(t *testing.T) {
	indexes := newFakeIndexes()
	indexes.pendingIds["file_slow"] = true
	m := newTestManager(indexes)
	ctx := context.Background()

	indexId, err := m.EnsureIndexFor(ctx, "user-1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	attached, _, err := m.Attach(ctx, "user-1", time.Hour, indexId, handles("file_fast", "file_slow"))
	if err != nil {
		t.Fatal(err)
	}
	if len(attached) != 1 || attached[0] != "file_fast" {
		t.Errorf("attached = %v, want only the indexed item", attached)
	}
}
