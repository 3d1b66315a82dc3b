package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the meshkit configuration
type Config struct {
	Mesh     MeshConfig     `mapstructure:"mesh"`
	Registry RegistryConfig `mapstructure:"registry"`
	S3       S3Config       `mapstructure:"s3"`
}

// MeshConfig locates the agent sources and the documentation host file
type MeshConfig struct {
	BaseFile  string `mapstructure:"base_file"`
	AgentsDir string `mapstructure:"agents_dir"`
	Readme    string `mapstructure:"readme"`
}

// RegistryConfig configures the snapshot fetch and the local sink
type RegistryConfig struct {
	MetadataURL string `mapstructure:"metadata_url"`
	Output      string `mapstructure:"output"`
}

// S3Config configures the remote object sink (credentials come from the
// environment, never from the config file)
type S3Config struct {
	Bucket string `mapstructure:"bucket"`
	Key    string `mapstructure:"key"`
	Region string `mapstructure:"region"`
}

// Load loads the configuration from meshkit.yml or meshkit.yaml
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("mesh.base_file", "mesh/agent.go")
	v.SetDefault("mesh.agents_dir", "mesh/agents")
	v.SetDefault("mesh.readme", "mesh/README.md")
	v.SetDefault("registry.metadata_url", "https://mesh.heurist.ai/metadata.json")
	v.SetDefault("registry.output", "metadata.json")
	v.SetDefault("s3.bucket", "mesh")
	v.SetDefault("s3.key", "metadata.json")
	v.SetDefault("s3.region", "enam")

	// Set config name and paths
	v.SetConfigName("meshkit")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Mesh.BaseFile == "" {
		return fmt.Errorf("mesh.base_file must not be empty")
	}
	if cfg.Mesh.AgentsDir == "" {
		return fmt.Errorf("mesh.agents_dir must not be empty")
	}
	if cfg.Registry.Output == "" {
		return fmt.Errorf("registry.output must not be empty")
	}
	return nil
}
