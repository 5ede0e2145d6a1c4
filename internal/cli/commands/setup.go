package commands

import (
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lineagelabs/sqlens/internal/batch"
	"github.com/lineagelabs/sqlens/internal/config"
)

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back
// to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	workers, _ := strconv.Atoi(os.Getenv("SQLENS_WORKERS"))

	return &config.Config{
		ModelsDir:    getEnvOrDefault("SQLENS_MODELS_DIR", config.DefaultModelsDir),
		OutputFormat: getEnvOrDefault("SQLENS_OUTPUT", config.DefaultOutput),
		Verbose:      os.Getenv("SQLENS_VERBOSE") == "true",
		Workers:      workers,
		CacheSize:    config.DefaultCacheSize,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// newExtractor builds a batch extractor from the current config and the
// command's context logger.
func newExtractor(cmd *cobra.Command, cfg *config.Config) *batch.Extractor {
	return batch.New(
		batch.WithRules(cfg.Rules()),
		batch.WithLogger(config.GetLogger(cmd.Context())),
		batch.WithWorkers(cfg.Workers),
		batch.WithCacheSize(cfg.CacheSize),
	)
}

// readInput returns the contents of path, or of stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// outputFormat picks the per-command format override when set,
// otherwise the configured one.
func outputFormat(override string, cfg *config.Config) string {
	if override != "" {
		return override
	}
	if cfg.OutputFormat != "" {
		return cfg.OutputFormat
	}
	return config.DefaultOutput
}
