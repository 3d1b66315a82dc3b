package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/meshkit-ai/meshkit/internal/inspect"
)

// ExcludedIdent marks diagnostic agents that never appear in the published
// registry.
const ExcludedIdent = "EchoAgent"

// ErrNoAgents reports that zero qualifying agents survived extraction and
// exclusion. An empty registry is never a valid publish target.
var ErrNoAgents = errors.New("no agents found")

// Agent is one registry entry: the base template merged with the module's
// declared metadata, the originating module stem, and the ordered tool
// schemas.
type Agent struct {
	Metadata map[string]any `json:"metadata"`
	Module   string         `json:"module"`
	Tools    []any          `json:"tools"`
}

// Registry is the artifact of record. encoding/json emits the agents map
// with lexicographically sorted keys.
type Registry struct {
	LastUpdated string           `json:"last_updated"`
	CommitSHA   string           `json:"commit_sha"`
	Agents      map[string]Agent `json:"agents"`
}

// Builder aggregates per-module records against the base template.
type Builder struct {
	template inspect.Template
	log      *zap.Logger
}

func NewBuilder(template inspect.Template, log *zap.Logger) *Builder {
	return &Builder{template: template, log: log}
}

// Build produces the candidate agents map. Each agent gets an independent
// deep copy of the template so later mutation never crosses agents, with the
// record's metadata shallow-merged over it (record keys win).
func (b *Builder) Build(records []inspect.ModuleRecord) (map[string]Agent, error) {
	agents := make(map[string]Agent, len(records))
	for _, rec := range records {
		if strings.Contains(rec.ClassName, ExcludedIdent) {
			continue
		}

		meta := deepCopy(map[string]any(b.template)).(map[string]any)
		for k, v := range rec.Metadata {
			meta[k] = v
		}

		agent := Agent{
			Metadata: meta,
			Module:   moduleStem(rec.File),
			Tools:    rec.Tools,
		}
		if len(agent.Tools) > 0 {
			b.augmentInputs(rec.ClassName, agent)
		}
		b.checkShape(rec.ClassName, agent)

		agents[rec.ClassName] = agent
	}

	if len(agents) == 0 {
		return nil, ErrNoAgents
	}
	return agents, nil
}

// augmentInputs appends the two synthetic tool-routing descriptors when the
// merged metadata carries a list-valued inputs field. Absent or non-list
// inputs means no augmentation, which is not an error.
func (b *Builder) augmentInputs(id string, agent Agent) {
	inputs, ok := agent.Metadata["inputs"].([]any)
	if !ok {
		return
	}

	names := ToolNames(agent.Tools)
	agent.Metadata["inputs"] = append(inputs,
		map[string]any{
			"name":        "tool",
			"description": fmt.Sprintf("Directly specify which tool to call: %s. Bypasses LLM.", strings.Join(names, ", ")),
			"type":        "str",
			"required":    false,
		},
		map[string]any{
			"name":        "tool_arguments",
			"description": "Arguments for the tool call as a dictionary",
			"type":        "dict",
			"required":    false,
			"default":     map[string]any{},
		},
	)
	b.log.Debug("appended tool routing inputs", zap.String("agent", id), zap.Strings("tools", names))
}

// checkShape runs the advisory structural checks: tool schemas against the
// embedded JSON Schema and the version field against semver. Violations are
// warnings only, never rejection.
func (b *Builder) checkShape(id string, agent Agent) {
	for i, tool := range agent.Tools {
		if err := CheckToolShape(tool); err != nil {
			b.log.Warn("tool schema has unexpected shape",
				zap.String("agent", id), zap.Int("index", i), zap.Error(err))
		}
	}
	if v, ok := agent.Metadata["version"].(string); ok {
		if _, err := semver.NewVersion(v); err != nil {
			b.log.Warn("version is not valid semver",
				zap.String("agent", id), zap.String("version", v))
		}
	}
}

// ToolNames extracts function names from a tools list, skipping malformed
// entries.
func ToolNames(tools []any) []string {
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		m, ok := tool.(map[string]any)
		if !ok {
			continue
		}
		fn, ok := m["function"].(map[string]any)
		if !ok {
			continue
		}
		if name, ok := fn["name"].(string); ok {
			names = append(names, name)
		}
	}
	return names
}

// SortedIDs returns the agent ids in ascending lexicographic order.
func SortedIDs(agents map[string]Agent) []string {
	ids := make([]string, 0, len(agents))
	for id := range agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// moduleStem is the originating file name without directory or extension.
func moduleStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// deepCopy produces an independent mutable copy of a converted value tree.
func deepCopy(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}
