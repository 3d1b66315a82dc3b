package commands

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/meshkit-ai/meshkit/internal/cli/ui"
)

//go:embed templates/*
var templatesFS embed.FS

var (
	newAuthor      string
	newDescription string
	newDir         string
)

var agentNameRe = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)

// validateAgentName checks the CamelCase type name the scaffold will declare
func validateAgentName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) == 0 || len(name) > 80 {
		return fmt.Errorf("agent name must be 1-80 characters")
	}
	if !agentNameRe.MatchString(name) {
		return fmt.Errorf("agent name must be CamelCase letters and digits, starting with an uppercase letter")
	}
	return nil
}

// NewNewCommand creates the new command
func NewNewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [agent-name]",
		Short: "Scaffold a new mesh agent",
		Long: `Create a new mesh agent source file with the metadata and tool-schema
declarations the registry extractor expects.

The Agent suffix is appended when missing, so "CoinPrice" and
"CoinPriceAgent" produce the same scaffold. If no name is provided, you
will be prompted for one.

Examples:
  meshkit new CoinPrice
  meshkit new WeatherAgent --author "mesh team" --description "Weather lookups"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runNew,
	}

	cmd.Flags().StringVar(&newAuthor, "author", "unknown", "Agent author recorded in the metadata")
	cmd.Flags().StringVar(&newDescription, "description", "", "One-line agent description")
	cmd.Flags().StringVar(&newDir, "dir", "mesh/agents", "Directory the agent file is written to")

	return cmd
}

func runNew(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		prompt := &survey.Input{
			Message: "Agent name (CamelCase):",
			Help:    "The Go type name, e.g. CoinPrice or CoinPriceAgent",
		}
		if err := survey.AskOne(prompt, &name, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	name = strings.TrimSpace(name)
	if err := validateAgentName(name); err != nil {
		return err
	}
	typeName := name
	if !strings.HasSuffix(typeName, "Agent") {
		typeName += "Agent"
	}

	path := filepath.Join(newDir, snakeCase(typeName)+".go")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("agent file already exists: %s", path)
	}

	if err := renderAgent(path, typeName); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ui.WriteSuccess(out, "created %s", path)
	ui.WriteInfo(out, "declare metadata with Metadata.Update and tools in GetToolSchemas, then run: meshkit update --dev")
	return nil
}

func renderAgent(path, typeName string) error {
	tmpl, err := template.ParseFS(templatesFS, "templates/agent.go.tmpl")
	if err != nil {
		return fmt.Errorf("parsing agent template: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	data := struct {
		TypeName    string
		DisplayName string
		Author      string
		Description string
	}{
		TypeName:    typeName,
		DisplayName: strings.TrimSuffix(typeName, "Agent"),
		Author:      newAuthor,
		Description: newDescription,
	}
	return tmpl.Execute(f, data)
}

// snakeCase converts a CamelCase type name to the agent file stem.
func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
