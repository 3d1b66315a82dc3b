package mesh

// DefaultModelID is the model agents use unless their metadata overrides it.
// The registry extractor resolves references to it statically, so it must
// stay a plain string constant.
const DefaultModelID = "nvidia/llama-3.1-nemotron-70b-instruct"

// Metadata holds an agent's declarative description. The registry is built
// by reading Update calls out of agent sources, never by executing them, so
// Update arguments must be plain literals.
type Metadata map[string]any

// Update shallow-merges fields into the metadata. Later calls win per key.
func (m Metadata) Update(fields map[string]any) {
	for k, v := range fields {
		m[k] = v
	}
}

// MeshAgent is the base every agent embeds. It carries the shared metadata
// defaults and the hooks the runtime dispatches through.
type MeshAgent struct {
	Name     string
	Metadata Metadata
}

// NewMeshAgent constructs the base with the default metadata. The registry
// extractor reads this assignment as the base template, so it must remain a
// single mapping literal.
func NewMeshAgent(name string) *MeshAgent {
	a := &MeshAgent{Name: name}
	a.Metadata = Metadata{
		"name":           a.Name,
		"version":        "1.0.0",
		"author":         "unknown",
		"author_address": "0x0000000000000000000000000000000000000000",
		"description":    "",
		"inputs": []map[string]any{
			{
				"name":        "query",
				"description": "Natural language query to the agent",
				"type":        "str",
				"required":    false,
			},
			{
				"name":        "raw_data_only",
				"description": "If true, the agent will only return the raw data without LLM explanation",
				"type":        "bool",
				"required":    false,
				"default":     false,
			},
		},
		"outputs": []map[string]any{
			{
				"name":        "response",
				"description": "The text response from the agent",
				"type":        "str",
			},
			{
				"name":        "data",
				"description": "Structured data from the agent",
				"type":        "dict",
			},
		},
		"external_apis":  []any{},
		"tags":           []any{},
		"large_model_id": DefaultModelID,
		"small_model_id": DefaultModelID,
		"hidden":         false,
		"recommended":    false,
		"image_url":      "",
		"examples":       []any{},
	}
	return a
}

// GetToolSchemas returns the agent's invocable capabilities. Agents override
// this; the base declares none.
func (a *MeshAgent) GetToolSchemas() []map[string]any {
	return nil
}

// SystemPrompt returns the prompt prepended to LLM calls. Agents override
// this as needed.
func (a *MeshAgent) SystemPrompt() string {
	return "You are a helpful agent that can use tools to answer questions."
}
