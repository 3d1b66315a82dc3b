package commands

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meshkit-ai/meshkit/internal/cli/config"
	"github.com/meshkit-ai/meshkit/internal/cli/ui"
	"github.com/meshkit-ai/meshkit/internal/pipeline"
)

var (
	updateDev     bool
	updateVerbose bool
)

// NewUpdateCommand creates the update command
func NewUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Re-extract agent metadata and publish the registry",
		Long: `Extract metadata and tool schemas from the mesh agent sources, merge
the result with the published registry, publish it, and regenerate the
agent table in the mesh README.

By default the registry is uploaded to the object store (when the
S3_ENDPOINT, S3_ACCESS_KEY, and S3_SECRET_KEY environment variables are
set). With --dev it is written to a local file instead.

Examples:
  meshkit update
  meshkit update --dev
  meshkit update --dev --verbose`,
		RunE: runUpdate,
	}

	cmd.Flags().BoolVar(&updateDev, "dev", false, "Write the registry to a local file instead of uploading")
	cmd.Flags().BoolVarP(&updateVerbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(updateVerbose)
	if err != nil {
		return err
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts := pipeline.Options{Dev: updateDev}
	reg, err := pipeline.New(cfg, logger).Run(cmd.Context(), opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if updateDev {
		ui.WriteSuccess(out, "registry with %d agents written to %s", len(reg.Agents), cfg.Registry.Output)
	} else {
		ui.WriteSuccess(out, "registry with %d agents published", len(reg.Agents))
	}
	return nil
}

// newLogger builds the console logger the pipeline logs through.
func newLogger(verbose bool) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if !verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return zapCfg.Build()
}
