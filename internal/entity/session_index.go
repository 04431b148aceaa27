package entity

import "time"

// SessionIndex is the per-user pointer to the ephemeral vector index holding
// that user's current-session uploads. At most one live pointer per scope key;
// overwrites are last-write-wins.
type SessionIndex struct {
	ScopeKey   string // requesting user's identity
	IndexId    string // external vector index handle
	LastUsedAt time.Time
}

// Expired reports whether the index has been idle longer than ttl.
func (s *SessionIndex) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastUsedAt) >= ttl
}
