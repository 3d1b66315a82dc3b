package inspect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeSource(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestExtractBaseTemplate(t *testing.T) {
	src := `package mesh

const DefaultModelID = "model-x"

type Metadata map[string]any

type MeshAgent struct {
	Name     string
	Metadata Metadata
}

func NewMeshAgent(name string) *MeshAgent {
	a := &MeshAgent{Name: name}
	a.Metadata = Metadata{
		"model_id":     DefaultModelID,
		"display_name": a.Name,
		"version":      "1.0.0",
		"inputs":       []map[string]any{{"name": "query", "required": false}},
	}
	return a
}
`
	path := writeSource(t, "agent.go", src)

	tmpl, err := ExtractBaseTemplate(path, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "model-x", tmpl["model_id"])
	assert.Equal(t, "", tmpl["display_name"])
	assert.Equal(t, "1.0.0", tmpl["version"])
	assert.Equal(t, []any{map[string]any{"name": "query", "required": false}}, tmpl["inputs"])
}

func TestExtractBaseTemplate_MissingFile(t *testing.T) {
	_, err := ExtractBaseTemplate(filepath.Join(t.TempDir(), "nope.go"), zap.NewNop())
	require.ErrorIs(t, err, ErrTemplateMissing)
}

func TestExtractBaseTemplate_ParseFailure(t *testing.T) {
	path := writeSource(t, "agent.go", "package mesh\nfunc {")
	_, err := ExtractBaseTemplate(path, zap.NewNop())
	require.ErrorIs(t, err, ErrTemplateMissing)
}

func TestExtractBaseTemplate_NoQualifyingAssignment(t *testing.T) {
	src := `package mesh

func NewMeshAgent(name string) *MeshAgent {
	return &MeshAgent{Name: name}
}
`
	path := writeSource(t, "agent.go", src)
	_, err := ExtractBaseTemplate(path, zap.NewNop())
	require.ErrorIs(t, err, ErrTemplateMissing)
}

// A placeholder bound to something other than a basic literal is tolerated;
// references to it degrade to the unresolved sentinel.
func TestExtractBaseTemplate_NonConstantPlaceholder(t *testing.T) {
	src := `package mesh

var DefaultModelID = pickModel()

func NewMeshAgent(name string) *MeshAgent {
	a := &MeshAgent{Name: name}
	a.Metadata = Metadata{"model_id": DefaultModelID}
	return a
}
`
	path := writeSource(t, "agent.go", src)

	tmpl, err := ExtractBaseTemplate(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "UNRESOLVED_IDENT_DefaultModelID", tmpl["model_id"])
}

// Only the first qualifying assignment in the constructor counts.
func TestExtractBaseTemplate_FirstAssignmentWins(t *testing.T) {
	src := `package mesh

func NewMeshAgent(name string) *MeshAgent {
	a := &MeshAgent{Name: name}
	a.Metadata = Metadata{"version": "1.0.0"}
	a.Metadata = Metadata{"version": "9.9.9"}
	return a
}
`
	path := writeSource(t, "agent.go", src)

	tmpl, err := ExtractBaseTemplate(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", tmpl["version"])
}
