package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshkit-ai/meshkit/internal/inspect"
	"go.uber.org/zap"
)

func runNewCommand(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewNewCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestNewCommand_ScaffoldsAgent(t *testing.T) {
	dir := t.TempDir()

	err := runNewCommand(t, "CoinPrice",
		"--dir", dir,
		"--author", "mesh team",
		"--description", "Fetches coin prices.")
	require.NoError(t, err)

	path := filepath.Join(dir, "coin_price_agent.go")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "type CoinPriceAgent struct")
	assert.Contains(t, string(content), `mesh.NewMeshAgent("CoinPriceAgent")`)
	assert.Contains(t, string(content), `"author":      "mesh team"`)

	// The scaffold must be extractable by the registry pipeline.
	records := inspect.ExtractModule(path, zap.NewNop())
	require.Len(t, records, 1)
	assert.Equal(t, "CoinPriceAgent", records[0].ClassName)
	assert.Equal(t, "Fetches coin prices.", records[0].Metadata["description"])
}

func TestNewCommand_AgentSuffixIdempotent(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, runNewCommand(t, "WeatherAgent", "--dir", dir))
	_, err := os.Stat(filepath.Join(dir, "weather_agent.go"))
	assert.NoError(t, err)
}

func TestNewCommand_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, runNewCommand(t, "Demo", "--dir", dir))
	err := runNewCommand(t, "Demo", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestValidateAgentName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"CoinPrice", false},
		{"CoinPriceAgent", false},
		{"A1", false},
		{"coinPrice", true},
		{"Coin-Price", true},
		{"Coin Price", true},
		{"", true},
		{"../Escape", true},
	}

	for _, tt := range tests {
		err := validateAgentName(tt.name)
		if tt.wantErr {
			assert.Error(t, err, tt.name)
		} else {
			assert.NoError(t, err, tt.name)
		}
	}
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "coin_price_agent", snakeCase("CoinPriceAgent"))
	assert.Equal(t, "echo_agent", snakeCase("EchoAgent"))
}
