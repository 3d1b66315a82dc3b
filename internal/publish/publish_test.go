package publish

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meshkit-ai/meshkit/internal/registry"
)

func testRegistry() *registry.Registry {
	return &registry.Registry{
		LastUpdated: "2026-01-01T00:00:00Z",
		CommitSHA:   "abc123",
		Agents: map[string]registry.Agent{
			"ZetaAgent":  {Metadata: map[string]any{"name": "Zeta"}, Module: "zeta_agent", Tools: []any{}},
			"AlphaAgent": {Metadata: map[string]any{"name": "Alpha"}, Module: "alpha_agent", Tools: []any{}},
		},
	}
}

func TestMarshal_SortedKeys(t *testing.T) {
	data, err := Marshal(testRegistry())
	require.NoError(t, err)

	s := string(data)
	assert.Less(t, strings.Index(s, "AlphaAgent"), strings.Index(s, "ZetaAgent"))
	assert.Contains(t, s, `"last_updated": "2026-01-01T00:00:00Z"`)
	assert.Contains(t, s, `"commit_sha": "abc123"`)
}

func TestWriteLocal(t *testing.T) {
	p := newTestPublisher()
	path := filepath.Join(t.TempDir(), "metadata.json")

	require.NoError(t, p.WriteLocal(testRegistry(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n"), "expected pretty-printed JSON")
	assert.Contains(t, string(data), `"AlphaAgent"`)
}

func TestWriteLocal_Failure(t *testing.T) {
	p := newTestPublisher()
	err := p.WriteLocal(testRegistry(), filepath.Join(t.TempDir(), "missing", "metadata.json"))
	assert.Error(t, err)
}

func TestUpload_SkipsWithoutCredentials(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
	}{
		{"all absent", Credentials{}},
		{"endpoint only", Credentials{Endpoint: "https://s3.example.com"}},
		{"missing secret", Credentials{Endpoint: "https://s3.example.com", AccessKey: "ak"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPublisher("mesh", "metadata.json", "enam", tt.creds, zap.NewNop())
			// Must be a silent no-op, never a panic or error.
			p.Upload(context.Background(), testRegistry())
		})
	}
}

func TestUpload_FailureIsSwallowed(t *testing.T) {
	creds := Credentials{
		Endpoint:  "http://127.0.0.1:1",
		AccessKey: "ak",
		SecretKey: "sk",
	}
	p := NewPublisher("mesh", "metadata.json", "enam", creds, zap.NewNop())
	// Unreachable endpoint: the failure is logged, not returned.
	p.Upload(context.Background(), testRegistry())
}

func TestSplitEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		wantHost string
		wantTLS  bool
	}{
		{"https://s3.example.com", "s3.example.com", true},
		{"http://localhost:9000", "localhost:9000", false},
		{"s3.example.com", "s3.example.com", true},
	}

	for _, tt := range tests {
		host, secure := splitEndpoint(tt.endpoint)
		assert.Equal(t, tt.wantHost, host)
		assert.Equal(t, tt.wantTLS, secure)
	}
}
