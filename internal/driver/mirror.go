package driver

import (
	"context"
	"time"

	"github.com/mindweave/mindweave/internal/core/model"
	"github.com/mindweave/mindweave/internal/logger"
)

// Mirror copies committed map structure into the graph database. Writes
// are best effort: a failed mirror is logged and never fails the caller,
// since the store remains the source of truth.
type Mirror struct {
	driver GraphDriver
	log    *logger.Logger
}

func NewMirror(d GraphDriver, log *logger.Logger) *Mirror {
	return &Mirror{driver: d, log: log}
}

// Reset drops everything mirrored for the session. Used when a session's
// graph is replaced wholesale, so stale concepts do not linger.
func (m *Mirror) Reset(ctx context.Context, sessionID string) {
	if m == nil || m.driver == nil {
		return
	}
	_, err := m.driver.ExecuteQuery(ctx, DeleteSessionGraphQuery, map[string]interface{}{
		"session_id": sessionID,
	})
	if err != nil {
		m.log.Warn("graph mirror: failed to reset session graph", "session_id", sessionID, "error", err)
	}
}

// MirrorMap upserts the given nodes and edges under the session's id.
func (m *Mirror) MirrorMap(ctx context.Context, sessionID string, nodes []model.NodeInfo, edges []model.Edge) {
	if m == nil || m.driver == nil {
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, n := range nodes {
		_, err := m.driver.ExecuteQuery(ctx, SaveConceptNodeQuery, map[string]interface{}{
			"id":         n.ID,
			"session_id": sessionID,
			"label":      n.Label,
			"content":    n.Content,
			"updated_at": now,
		})
		if err != nil {
			m.log.Warn("graph mirror: failed to save concept", "session_id", sessionID, "node_id", n.ID, "error", err)
			return
		}
	}

	for _, e := range edges {
		_, err := m.driver.ExecuteQuery(ctx, SaveSubtopicEdgeQuery, map[string]interface{}{
			"id":         e.ID,
			"session_id": sessionID,
			"source_id":  e.Source,
			"target_id":  e.Target,
		})
		if err != nil {
			m.log.Warn("graph mirror: failed to save edge", "session_id", sessionID, "edge_id", e.ID, "error", err)
			return
		}
	}
}
