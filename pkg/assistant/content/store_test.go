package content

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"trade-assistant-be/internal/pkg/logger"
	"trade-assistant-be/internal/repository/memory"
	"trade-assistant-be/pkg/provider"
)

type fakeRegistry struct {
	files       []provider.RegistryFile
	uploadCalls int
	listCalls   int
}

func (f *fakeRegistry) Upload(_ context.Context, r io.Reader, name string) (string, error) {
	f.uploadCalls++
	io.Copy(io.Discard, r)
	id := fmt.Sprintf("file_%d", f.uploadCalls)
	f.files = append(f.files, provider.RegistryFile{ExternalId: id, Name: name})
	return id, nil
}

func (f *fakeRegistry) ListAll(_ context.Context) ([]provider.RegistryFile, error) {
	f.listCalls++
	return append([]provider.RegistryFile(nil), f.files...), nil
}

func newTestStore(registry *fakeRegistry) *Store {
	return NewStore(registry, memory.NewDocumentHandleRepository(), logger.NewNop())
}

func TestRegisterOrReuseUploadsOnce(t *testing.T) {
	registry := &fakeRegistry{}
	store := newTestStore(registry)
	ctx := context.Background()

	first, err := store.RegisterOrReuse(ctx, strings.NewReader("manual bytes"), "boiler.pdf")
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	if registry.uploadCalls != 1 {
		t.Fatalf("uploadCalls = %d, want 1", registry.uploadCalls)
	}

	// Same bytes again: resolved from the cache, provider untouched.
	second, err := store.RegisterOrReuse(ctx, strings.NewReader("manual bytes"), "boiler.pdf")
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if registry.uploadCalls != 1 {
		t.Errorf("uploadCalls = %d after repeat, want 1", registry.uploadCalls)
	}
	if second.ExternalId != first.ExternalId {
		t.Errorf("ExternalId = %q, want %q", second.ExternalId, first.ExternalId)
	}
}

func TestRegisterOrReuseSameBytesDifferentName(t *testing.T) {
	registry := &fakeRegistry{}
	store := newTestStore(registry)
	ctx := context.Background()

	// Identity is the bytes, not the filename: a repeat under a different
	// display name must resolve to the one external id already minted.
	a, err := store.RegisterOrReuse(ctx, strings.NewReader("identical"), "alpha.pdf")
	if err != nil {
		t.Fatal(err)
	}
	b, err := store.RegisterOrReuse(ctx, strings.NewReader("identical"), "bravo.pdf")
	if err != nil {
		t.Fatal(err)
	}

	if registry.uploadCalls != 1 {
		t.Errorf("uploadCalls = %d, want 1 for one content hash", registry.uploadCalls)
	}
	if b.ExternalId != a.ExternalId {
		t.Errorf("ExternalId = %q, want %q: same bytes must share one external id", b.ExternalId, a.ExternalId)
	}
	if b.ContentHash != a.ContentHash {
		t.Errorf("ContentHash differs for identical bytes: %q vs %q", a.ContentHash, b.ContentHash)
	}
}

func TestRegisterOrReuseDifferentNameRecoversFromListing(t *testing.T) {
	registry := &fakeRegistry{}
	ctx := context.Background()

	seed := newTestStore(registry)
	seeded, err := seed.RegisterOrReuse(ctx, strings.NewReader("identical"), "alpha.pdf")
	if err != nil {
		t.Fatal(err)
	}

	// Fresh cache, different display name: the listing fallback matches on
	// the hash prefix, not the full provider file name.
	fresh := newTestStore(registry)
	recovered, err := fresh.RegisterOrReuse(ctx, strings.NewReader("identical"), "bravo.pdf")
	if err != nil {
		t.Fatal(err)
	}

	if registry.uploadCalls != 1 {
		t.Errorf("uploadCalls = %d, want 1", registry.uploadCalls)
	}
	if recovered.ExternalId != seeded.ExternalId {
		t.Errorf("ExternalId = %q, want %q", recovered.ExternalId, seeded.ExternalId)
	}
}

func TestRegisterOrReuseRecoversFromProviderListing(t *testing.T) {
	registry := &fakeRegistry{}
	ctx := context.Background()

	// Seed the provider side only, as if a previous process uploaded it but
	// the local cache was lost.
	seed := newTestStore(registry)
	seeded, err := seed.RegisterOrReuse(ctx, strings.NewReader("manual bytes"), "boiler.pdf")
	if err != nil {
		t.Fatal(err)
	}

	fresh := newTestStore(registry)
	recovered, err := fresh.RegisterOrReuse(ctx, strings.NewReader("manual bytes"), "boiler.pdf")
	if err != nil {
		t.Fatal(err)
	}

	if registry.uploadCalls != 1 {
		t.Errorf("uploadCalls = %d, want 1: listing should have resolved the repeat", registry.uploadCalls)
	}
	if recovered.ExternalId != seeded.ExternalId {
		t.Errorf("ExternalId = %q, want %q", recovered.ExternalId, seeded.ExternalId)
	}
}

func TestStableName(t *testing.T) {
	if got := StableName("abc123", "manual.pdf"); got != "abc123-manual.pdf" {
		t.Errorf("StableName = %q", got)
	}
}
