package api

import (
	"context"
	"time"
)

// SourceStatus reports how many prefixes one configured source contributed
// before aggregation.
type SourceStatus struct {
	Name       string `json:"name"`
	EntryCount int    `json:"entry_count"`
}

// Snapshot is an immutable view of the current aggregated list. The refresh
// loop swaps in a new Snapshot atomically; handlers never see a half-updated
// list.
type Snapshot struct {
	Text        string
	EntryCount  int
	Digest      string
	LastRefresh time.Time
	Sources     []SourceStatus
}

// ListProvider is the surface the HTTP API needs from the refresh loop.
type ListProvider interface {
	// Snapshot returns the current list state. Before the first successful
	// refresh the snapshot is zero-valued.
	Snapshot() Snapshot

	// Refresh fetches, aggregates and (if changed) publishes immediately.
	Refresh(ctx context.Context) error
}

// StatusResponse is the JSON body of GET /api/v1/status.
type StatusResponse struct {
	Ready       bool           `json:"ready"`
	LastRefresh *time.Time     `json:"last_refresh,omitempty"`
	EntryCount  int            `json:"entry_count"`
	Digest      string         `json:"digest,omitempty"`
	Sources     []SourceStatus `json:"sources"`
}

func statusFromSnapshot(s Snapshot) StatusResponse {
	resp := StatusResponse{
		Ready:      !s.LastRefresh.IsZero(),
		EntryCount: s.EntryCount,
		Digest:     s.Digest,
		Sources:    s.Sources,
	}
	if resp.Ready {
		t := s.LastRefresh
		resp.LastRefresh = &t
	}
	if resp.Sources == nil {
		resp.Sources = []SourceStatus{}
	}
	return resp
}
