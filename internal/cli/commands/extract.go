package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lineagelabs/sqlens/internal/output"
)

// ExtractOptions holds options for the extract command.
type ExtractOptions struct {
	OutputFormat string
}

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	opts := &ExtractOptions{}

	cmd := &cobra.Command{
		Use:   "extract [path]",
		Short: "Extract column lineage from SQL files",
		Long: `Extract column-level lineage edges from a SQL file or from every
.sql file in a directory.

Each query is wrapped with a synthetic INSERT target named after its
file, wildcards are expanded through CTE chains, and the dependency
chains are flattened into source/derived column edges.`,
		Example: `  # Extract lineage from the configured models directory
  sqlens extract

  # Extract lineage from a specific directory
  sqlens extract ./models

  # Extract lineage from a single file
  sqlens extract ./models/daily_revenue.sql

  # Output as CSV
  sqlens extract ./models --output csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runExtract(cmd, path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputFormat, "output", "o", "", "Output format (table|csv|json|markdown)")

	return cmd
}

func runExtract(cmd *cobra.Command, path string, opts *ExtractOptions) error {
	cfg := getConfig()
	if path == "" {
		path = cfg.ModelsDir
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	e := newExtractor(cmd, cfg)

	if info.IsDir() {
		list, err := e.ExtractDir(cmd.Context(), path)
		if err != nil {
			return err
		}
		return output.RenderEdges(cmd.OutOrStdout(), list, outputFormat(opts.OutputFormat, cfg))
	}

	list, err := e.ExtractFile(path)
	if err != nil {
		return err
	}
	return output.RenderEdges(cmd.OutOrStdout(), list, outputFormat(opts.OutputFormat, cfg))
}
