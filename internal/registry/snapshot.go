package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// carryForward lists the metadata fields owned by the out-of-band stats
// process. They are never derivable from source and must survive
// re-extraction unchanged.
var carryForward = []string{"total_calls", "greeting_message"}

// Snapshot is the previously published registry, or empty when it could not
// be fetched.
type Snapshot struct {
	Agents map[string]SnapshotAgent `json:"agents"`
}

type SnapshotAgent struct {
	Metadata map[string]any `json:"metadata"`
}

func emptySnapshot() Snapshot {
	return Snapshot{Agents: map[string]SnapshotAgent{}}
}

// Merger carries externally-owned fields from the published snapshot into a
// fresh candidate.
type Merger struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewMerger(url string, client *http.Client, log *zap.Logger) *Merger {
	if client == nil {
		client = http.DefaultClient
	}
	return &Merger{url: url, client: client, log: log}
}

// Fetch retrieves the published registry. Any failure (transport error,
// non-2xx status, malformed body) degrades to an empty snapshot with a
// warning; a missing snapshot never fails the run.
func (m *Merger) Fetch(ctx context.Context) Snapshot {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.url, nil)
	if err != nil {
		m.log.Warn("failed to build snapshot request", zap.Error(err))
		return emptySnapshot()
	}

	resp, err := m.client.Do(req)
	if err != nil {
		m.log.Warn("failed to fetch existing metadata", zap.Error(err))
		return emptySnapshot()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		m.log.Warn("failed to fetch existing metadata",
			zap.String("status", fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))))
		return emptySnapshot()
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		m.log.Warn("failed to decode existing metadata", zap.Error(err))
		return emptySnapshot()
	}
	if snap.Agents == nil {
		snap.Agents = map[string]SnapshotAgent{}
	}
	return snap
}

// Merge copies the carry-forward fields from the snapshot into every agent
// present in both. All other fields always come from the fresh candidate.
func (m *Merger) Merge(agents map[string]Agent, snap Snapshot) {
	for id, agent := range agents {
		prev, ok := snap.Agents[id]
		if !ok {
			continue
		}
		for _, field := range carryForward {
			if v, ok := prev.Metadata[field]; ok {
				agent.Metadata[field] = v
			}
		}
	}
}
