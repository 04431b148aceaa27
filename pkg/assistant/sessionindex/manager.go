package sessionindex

import (
	"context"
	"fmt"
	"time"

	"trade-assistant-be/internal/entity"
	"trade-assistant-be/internal/pkg/logger"
	"trade-assistant-be/internal/repository/contract"
	"trade-assistant-be/pkg/provider"
)

const (
	defaultWaitTimeout  = 20 * time.Second
	defaultPollInterval = 800 * time.Millisecond
)

// Manager owns the per-user ephemeral vector index lifecycle: create on
// first upload, reuse within the TTL window, abandon and recreate after.
// Expired indexes are never deleted here; the provider-side expiry hint is
// the cleanup backstop.
type Manager struct {
	indexes      provider.VectorIndexProvider
	pointers     contract.SessionIndexRepository
	logger       logger.ILogger
	waitTimeout  time.Duration
	pollInterval time.Duration
}

func NewManager(
	indexes provider.VectorIndexProvider,
	pointers contract.SessionIndexRepository,
	sysLogger logger.ILogger,
) *Manager {
	return &Manager{
		indexes:      indexes,
		pointers:     pointers,
		logger:       sysLogger,
		waitTimeout:  defaultWaitTimeout,
		pollInterval: defaultPollInterval,
	}
}

// WithWaitTimeout overrides the indexing-readiness ceiling. Used by tests.
func (m *Manager) WithWaitTimeout(timeout, interval time.Duration) *Manager {
	m.waitTimeout = timeout
	m.pollInterval = interval
	return m
}

// EnsureIndexFor returns the live session index for the scope, creating a
// fresh one when none exists or the stored one has gone idle past ttl.
// Reuse refreshes LastUsedAt.
func (m *Manager) EnsureIndexFor(ctx context.Context, scopeKey string, ttl time.Duration) (string, error) {
	current, err := m.pointers.Find(ctx, scopeKey)
	if err != nil {
		m.logger.Warn("session_index", "pointer read failed, creating fresh index", map[string]interface{}{
			"scope_key": scopeKey,
			"error":     err.Error(),
		})
	}
	now := time.Now()
	if current != nil && !current.Expired(now, ttl) {
		current.LastUsedAt = now
		m.putPointer(ctx, current)
		return current.IndexId, nil
	}
	return m.createIndex(ctx, scopeKey, ttl)
}

func (m *Manager) createIndex(ctx context.Context, scopeKey string, ttl time.Duration) (string, error) {
	name := fmt.Sprintf("session-%s-%d", scopeKey, time.Now().Unix())
	indexId, err := m.indexes.CreateIndex(ctx, name, ttl)
	if err != nil {
		return "", err
	}
	m.putPointer(ctx, &entity.SessionIndex{
		ScopeKey:   scopeKey,
		IndexId:    indexId,
		LastUsedAt: time.Now(),
	})
	m.logger.Info("session_index", "created session index", map[string]interface{}{
		"scope_key": scopeKey,
		"index_id":  indexId,
	})
	return indexId, nil
}

// putPointer overwrites the stored mapping. Last writer wins under races;
// each in-flight request keeps using the index id it fetched locally, so a
// lost write only costs an extra index next request.
func (m *Manager) putPointer(ctx context.Context, index *entity.SessionIndex) {
	if err := m.pointers.Put(ctx, index); err != nil {
		m.logger.Warn("session_index", "pointer write failed", map[string]interface{}{
			"scope_key": index.ScopeKey,
			"index_id":  index.IndexId,
			"error":     err.Error(),
		})
	}
}

// Attach attaches the handles to the session index idempotently and waits
// (bounded) for indexing. If the index vanished or the provider wobbles it
// recreates the index and retries the whole attachment exactly once. The
// returned index id is the one actually holding the content; callers must
// use it for the rest of their request.
func (m *Manager) Attach(ctx context.Context, scopeKey string, ttl time.Duration, indexId string, handles []*entity.DocumentHandle) ([]string, string, error) {
	attached, err := m.attachOnce(ctx, indexId, handles)
	if err == nil {
		m.putPointer(ctx, &entity.SessionIndex{ScopeKey: scopeKey, IndexId: indexId, LastUsedAt: time.Now()})
		return attached, indexId, nil
	}
	if !provider.IsTransient(err) && !provider.IsNotFound(err) {
		return nil, indexId, err
	}

	m.logger.Warn("session_index", "attach failed, recreating index and retrying once", map[string]interface{}{
		"scope_key": scopeKey,
		"index_id":  indexId,
		"error":     err.Error(),
	})
	freshId, err := m.createIndex(ctx, scopeKey, ttl)
	if err != nil {
		return nil, indexId, err
	}
	attached, err = m.attachOnce(ctx, freshId, handles)
	if err != nil {
		return nil, freshId, err
	}
	return attached, freshId, nil
}

// WaitForIndexed blocks until the given items report a terminal indexed
// status or the ceiling passes, returning the ids that made it. Library
// ingestion reuses this for its best-effort readiness wait.
func (m *Manager) WaitForIndexed(ctx context.Context, indexId string, externalIds []string) []string {
	return m.waitForIndexing(ctx, indexId, externalIds)
}

func (m *Manager) attachOnce(ctx context.Context, indexId string, handles []*entity.DocumentHandle) ([]string, error) {
	items, err := m.indexes.ListItems(ctx, indexId)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(items))
	for _, item := range items {
		existing[item.ExternalId] = true
	}

	var ready, pending []string
	for _, h := range handles {
		if existing[h.ExternalId] {
			ready = append(ready, h.ExternalId)
			continue
		}
		if err := m.indexes.AttachItem(ctx, indexId, h.ExternalId); err != nil {
			if provider.IsAlreadyAttached(err) {
				ready = append(ready, h.ExternalId)
				continue
			}
			return nil, err
		}
		pending = append(pending, h.ExternalId)
	}

	indexed := m.waitForIndexing(ctx, indexId, pending)
	return append(ready, indexed...), nil
}

// waitForIndexing polls until every newly attached item reports a terminal
// indexed status or the ceiling passes. Items still pending at the deadline
// are excluded from the scope, not fatal: the request degrades to best
// effort grounding.
func (m *Manager) waitForIndexing(ctx context.Context, indexId string, pending []string) []string {
	if len(pending) == 0 {
		return nil
	}
	waiting := make(map[string]bool, len(pending))
	for _, id := range pending {
		waiting[id] = true
	}
	var indexed []string
	deadline := time.Now().Add(m.waitTimeout)

	for len(waiting) > 0 && time.Now().Before(deadline) {
		items, err := m.indexes.ListItems(ctx, indexId)
		if err != nil {
			m.logger.Warn("session_index", "readiness poll failed", map[string]interface{}{
				"index_id": indexId,
				"error":    err.Error(),
			})
			break
		}
		for _, item := range items {
			if !waiting[item.ExternalId] {
				continue
			}
			switch item.Status {
			case provider.ItemStatusCompleted:
				indexed = append(indexed, item.ExternalId)
				delete(waiting, item.ExternalId)
			case provider.ItemStatusFailed:
				m.logger.Warn("session_index", "item failed to index, excluding from scope", map[string]interface{}{
					"index_id":    indexId,
					"external_id": item.ExternalId,
				})
				delete(waiting, item.ExternalId)
			}
		}
		if len(waiting) == 0 {
			break
		}
		select {
		case <-ctx.Done():
			return indexed
		case <-time.After(m.pollInterval):
		}
	}

	for id := range waiting {
		m.logger.Warn("session_index", "item not indexed before timeout, excluding from scope", map[string]interface{}{
			"index_id":    indexId,
			"external_id": id,
		})
	}
	return indexed
}
