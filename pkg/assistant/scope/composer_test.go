package scope

import (
	"reflect"
	"testing"
)

func TestBuildScopesWithUploads(t *testing.T) {
	scopes := BuildScopes("vs_session", []string{"vs_lib1", "vs_lib2"}, true)

	if len(scopes) != 2 {
		t.Fatalf("len(scopes) = %d, want 2", len(scopes))
	}

	first := scopes[0]
	if first.Label != LabelUploadsOnly {
		t.Errorf("scopes[0].Label = %q, want %q", first.Label, LabelUploadsOnly)
	}
	if !reflect.DeepEqual(first.IndexIds, []string{"vs_session"}) {
		t.Errorf("scopes[0].IndexIds = %v, want session index only", first.IndexIds)
	}
	if !first.RequireGrounding {
		t.Error("uploads-only scope must require grounding")
	}

	second := scopes[1]
	if second.Label != LabelUploadsPlusLibrary {
		t.Errorf("scopes[1].Label = %q, want %q", second.Label, LabelUploadsPlusLibrary)
	}
	if !reflect.DeepEqual(second.IndexIds, []string{"vs_session", "vs_lib1", "vs_lib2"}) {
		t.Errorf("scopes[1].IndexIds = %v, want session index first", second.IndexIds)
	}
	if second.RequireGrounding {
		t.Error("blended scope must not require grounding")
	}
}

func TestBuildScopesWithoutUploads(t *testing.T) {
	scopes := BuildScopes("", []string{"vs_lib1"}, false)

	if len(scopes) != 1 {
		t.Fatalf("len(scopes) = %d, want 1", len(scopes))
	}
	if scopes[0].Label != LabelLibraryOnly {
		t.Errorf("Label = %q, want %q", scopes[0].Label, LabelLibraryOnly)
	}
	if !reflect.DeepEqual(scopes[0].IndexIds, []string{"vs_lib1"}) {
		t.Errorf("IndexIds = %v", scopes[0].IndexIds)
	}
}

func TestBuildScopesUploadsWithoutSessionIndex(t *testing.T) {
	// Uploads flagged but no session index minted falls back to library only.
	scopes := BuildScopes("", []string{"vs_lib1"}, true)

	if len(scopes) != 1 || scopes[0].Label != LabelLibraryOnly {
		t.Fatalf("scopes = %+v, want single library_only scope", scopes)
	}
}

func TestBuildScopesDedup(t *testing.T) {
	scopes := BuildScopes("vs_session", []string{"vs_lib1", "vs_lib1", "", "vs_session"}, true)

	blended := scopes[1].IndexIds
	if !reflect.DeepEqual(blended, []string{"vs_session", "vs_lib1"}) {
		t.Errorf("blended IndexIds = %v, want duplicates and blanks dropped", blended)
	}
}

func TestBuildScopesDoesNotMutateInput(t *testing.T) {
	libs := []string{"vs_lib2", "vs_lib1"}
	BuildScopes("vs_session", libs, true)

	if !reflect.DeepEqual(libs, []string{"vs_lib2", "vs_lib1"}) {
		t.Errorf("input slice mutated: %v", libs)
	}
}
