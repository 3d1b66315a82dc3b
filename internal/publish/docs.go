package publish

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/meshkit-ai/meshkit/internal/registry"
)

const tableHeader = `| Agent ID | Description | Available Tools | Source Code | External APIs |
|----------|-------------|-----------------|-------------|---------------|`

// sectionRe captures the anchor heading, the generated body, and the
// terminating rule, non-greedily across lines.
var sectionRe = regexp.MustCompile(`(?s)(## Appendix: All Available Mesh Agents\n)(.*?)(\n---)`)

// AgentTable renders one markdown row per agent, sorted by agent id.
func AgentTable(agents map[string]registry.Agent) string {
	rows := make([]string, 0, len(agents))
	for _, id := range registry.SortedIDs(agents) {
		agent := agents[id]

		toolsText := "-"
		if names := registry.ToolNames(agent.Tools); len(names) > 0 {
			bullets := make([]string, len(names))
			for i, name := range names {
				bullets[i] = "• " + name
			}
			toolsText = strings.Join(bullets, "<br>")
		}

		apisText := "-"
		if apis, ok := agent.Metadata["external_apis"].([]any); ok && len(apis) > 0 {
			parts := make([]string, 0, len(apis))
			for _, api := range apis {
				if s, ok := api.(string); ok {
					parts = append(parts, s)
				}
			}
			if len(parts) > 0 {
				apisText = strings.Join(parts, ", ")
			}
		}

		sourceLink := "-"
		if agent.Module != "" {
			sourceLink = fmt.Sprintf("[Source](./agents/%s.go)", agent.Module)
		}

		description := ""
		if d, ok := agent.Metadata["description"].(string); ok {
			description = strings.ReplaceAll(d, "\n", " ")
		}

		rows = append(rows, fmt.Sprintf("| %s | %s | %s | %s | %s |",
			id, description, toolsText, sourceLink, apisText))
	}

	return tableHeader + "\n" + strings.Join(rows, "\n")
}

// SpliceReadme replaces the anchor section's body with the generated table.
// A missing anchor is logged and skipped; documentation drift must not
// block the registry. A write failure after a match is fatal.
func (p *Publisher) SpliceReadme(path, table string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	loc := sectionRe.FindSubmatchIndex(content)
	if loc == nil {
		p.log.Warn("could not find agent table section, skipping documentation update",
			zap.String("path", path))
		return nil
	}

	var out strings.Builder
	out.Write(content[:loc[3]]) // through the anchor heading
	out.WriteString("\n" + table)
	out.Write(content[loc[6]:]) // from the terminating rule onward
	if err := os.WriteFile(path, []byte(out.String()), 0644); err != nil {
		return fmt.Errorf("updating %s: %w", path, err)
	}

	p.log.Info("updated documentation with agent table", zap.String("path", path))
	return nil
}
