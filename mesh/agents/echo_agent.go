package agents

import "github.com/meshkit-ai/meshkit/mesh"

// EchoAgent is a diagnostic agent that repeats its input. It is excluded
// from the published registry.
type EchoAgent struct {
	*mesh.MeshAgent
}

func NewEchoAgent() *EchoAgent {
	a := &EchoAgent{MeshAgent: mesh.NewMeshAgent("EchoAgent")}
	a.Metadata.Update(map[string]any{
		"name":        "Echo",
		"description": "Echoes the query back. Used to verify mesh plumbing.",
		"hidden":      true,
	})
	return a
}

// Handle returns the query unchanged.
func (a *EchoAgent) Handle(query string) (string, map[string]any, error) {
	return query, map[string]any{"echo": query}, nil
}
