package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMerger_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"agents": {"DemoAgent": {"metadata": {"total_calls": 42}}}}`))
	}))
	defer srv.Close()

	m := NewMerger(srv.URL, nil, zap.NewNop())
	snap := m.Fetch(context.Background())

	require.Contains(t, snap.Agents, "DemoAgent")
	assert.Equal(t, float64(42), snap.Agents["DemoAgent"].Metadata["total_calls"])
}

func TestMerger_Fetch_DegradesToEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-2xx status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		}},
		{"null agents", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			snap := NewMerger(srv.URL, nil, zap.NewNop()).Fetch(context.Background())
			assert.NotNil(t, snap.Agents)
			assert.Empty(t, snap.Agents)
		})
	}
}

func TestMerger_Fetch_TransportError(t *testing.T) {
	m := NewMerger("http://127.0.0.1:1/metadata.json", nil, zap.NewNop())
	snap := m.Fetch(context.Background())
	assert.NotNil(t, snap.Agents)
	assert.Empty(t, snap.Agents)
}

func TestMerger_Merge_CarriesForwardAllowlistOnly(t *testing.T) {
	agents := map[string]Agent{
		"DemoAgent": {Metadata: map[string]any{"version": "2.0"}},
	}
	snap := Snapshot{Agents: map[string]SnapshotAgent{
		"DemoAgent": {Metadata: map[string]any{
			"total_calls":      float64(42),
			"greeting_message": "hello",
			"version":          "1.0",
			"sneaky_field":     "injected",
		}},
	}}

	NewMerger("", nil, zap.NewNop()).Merge(agents, snap)

	meta := agents["DemoAgent"].Metadata
	assert.Equal(t, float64(42), meta["total_calls"])
	assert.Equal(t, "hello", meta["greeting_message"])
	// Fresh extraction wins for everything outside the allowlist.
	assert.Equal(t, "2.0", meta["version"])
	assert.NotContains(t, meta, "sneaky_field")
}

func TestMerger_Merge_SkipsAgentsAbsentFromSnapshot(t *testing.T) {
	agents := map[string]Agent{
		"NewAgent": {Metadata: map[string]any{"version": "1.0"}},
	}
	snap := Snapshot{Agents: map[string]SnapshotAgent{
		"OtherAgent": {Metadata: map[string]any{"total_calls": float64(7)}},
	}}

	NewMerger("", nil, zap.NewNop()).Merge(agents, snap)

	assert.Equal(t, map[string]any{"version": "1.0"}, agents["NewAgent"].Metadata)
}

func TestMerger_Merge_PartialAllowlist(t *testing.T) {
	agents := map[string]Agent{
		"DemoAgent": {Metadata: map[string]any{}},
	}
	snap := Snapshot{Agents: map[string]SnapshotAgent{
		"DemoAgent": {Metadata: map[string]any{"total_calls": float64(3)}},
	}}

	NewMerger("", nil, zap.NewNop()).Merge(agents, snap)

	assert.Equal(t, float64(3), agents["DemoAgent"].Metadata["total_calls"])
	assert.NotContains(t, agents["DemoAgent"].Metadata, "greeting_message")
}
