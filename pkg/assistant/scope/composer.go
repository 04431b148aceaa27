package scope

// Labels for the canonical retrieval scopes. The orchestrator reports the
// label of the scope that produced the accepted answer as the response mode.
const (
	LabelUploadsOnly        = "uploads_only"
	LabelUploadsPlusLibrary = "uploads_plus_library"
	LabelLibraryOnly        = "library_only"
)

// Scope is an ordered set of index handles offered to the generation
// provider for one attempt.
type Scope struct {
	Label            string
	IndexIds         []string
	RequireGrounding bool
}

// BuildScopes composes the retrieval plan. With uploads present the session
// index is tried in isolation first so citations are unambiguous about
// provenance; the library is blended in only as the escalation step.
// Without uploads there is a single library-only scope.
// Caller-supplied slices are never mutated.
func BuildScopes(sessionIndexId string, libraryIndexIds []string, hasUploads bool) []Scope {
	libs := dedup(libraryIndexIds)

	if !hasUploads || sessionIndexId == "" {
		return []Scope{
			{
				Label:            LabelLibraryOnly,
				IndexIds:         libs,
				RequireGrounding: false,
			},
		}
	}

	blended := make([]string, 0, 1+len(libs))
	blended = append(blended, sessionIndexId)
	for _, id := range libs {
		if id != sessionIndexId {
			blended = append(blended, id)
		}
	}

	return []Scope{
		{
			Label:            LabelUploadsOnly,
			IndexIds:         []string{sessionIndexId},
			RequireGrounding: true,
		},
		{
			Label:            LabelUploadsPlusLibrary,
			IndexIds:         blended,
			RequireGrounding: false,
		},
	}
}

func dedup(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
