package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/meshkit-ai/meshkit/internal/cli/config"
	"github.com/meshkit-ai/meshkit/internal/inspect"
	"github.com/meshkit-ai/meshkit/internal/publish"
	"github.com/meshkit-ai/meshkit/internal/registry"
)

// agentFilePattern matches one class-bearing agent module per file.
const agentFilePattern = "*_agent.go"

// Options selects the run mode. Dev writes the registry to the local file
// instead of uploading it.
type Options struct {
	Dev bool
}

// Pipeline runs the extraction-and-publish sequence: base template, per-file
// extraction, aggregation, snapshot merge, publish, documentation.
type Pipeline struct {
	cfg *config.Config
	log *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, log: log}
}

// Run executes the whole pipeline and returns the published registry.
// Template extraction failure, zero agents, a local write failure, and a
// documentation write failure after an anchor match are fatal; everything
// else is logged and survived.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*registry.Registry, error) {
	template, err := inspect.ExtractBaseTemplate(p.cfg.Mesh.BaseFile, p.log)
	if err != nil {
		return nil, err
	}
	p.log.Debug("extracted base template", zap.Int("fields", len(template)))

	records := p.extractAgents()

	builder := registry.NewBuilder(template, p.log)
	agents, err := builder.Build(records)
	if err != nil {
		return nil, err
	}
	p.log.Info("found agents", zap.Int("count", len(agents)))

	merger := registry.NewMerger(p.cfg.Registry.MetadataURL, nil, p.log)
	merger.Merge(agents, merger.Fetch(ctx))

	reg := &registry.Registry{
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		CommitSHA:   os.Getenv("GITHUB_SHA"),
		Agents:      agents,
	}

	publisher := publish.NewPublisher(
		p.cfg.S3.Bucket, p.cfg.S3.Key, p.cfg.S3.Region,
		publish.CredentialsFromEnv(), p.log)

	if opts.Dev {
		if err := publisher.WriteLocal(reg, p.cfg.Registry.Output); err != nil {
			return nil, err
		}
	} else {
		publisher.Upload(ctx, reg)
	}

	table := publish.AgentTable(reg.Agents)
	if err := publisher.SpliceReadme(p.cfg.Mesh.Readme, table); err != nil {
		return nil, err
	}

	return reg, nil
}

// extractAgents discovers and processes every agent file independently. A
// file that fails to parse contributes zero records and the run continues.
func (p *Pipeline) extractAgents() []inspect.ModuleRecord {
	pattern := filepath.Join(p.cfg.Mesh.AgentsDir, agentFilePattern)
	files, err := filepath.Glob(pattern)
	if err != nil {
		p.log.Warn("bad agent file pattern", zap.String("pattern", pattern), zap.Error(err))
		return nil
	}
	if len(files) == 0 {
		p.log.Error("no agent files found", zap.String("pattern", pattern))
		return nil
	}

	var records []inspect.ModuleRecord
	for _, file := range files {
		records = append(records, inspect.ExtractModule(file, p.log)...)
	}
	return records
}
