package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lineagelabs/sqlens/internal/config"
	"github.com/lineagelabs/sqlens/pkg/format"
)

// NewCleanCommand creates the clean command.
func NewCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean <file>",
		Short: "Format a SQL query and strip block comments",
		Long: `Reformat a SQL query with consistent indentation and keyword casing,
removing block comments. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			// Clean hands back the original text when the query does
			// not parse, so the output is always usable.
			cleaned, err := format.Clean(sql)
			if err != nil {
				config.GetLogger(cmd.Context()).Warn("returning query unformatted", "error", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cleaned)
			return nil
		},
	}
}
