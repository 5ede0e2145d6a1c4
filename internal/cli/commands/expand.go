package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lineagelabs/sqlens/internal/config"
	"github.com/lineagelabs/sqlens/internal/expand"
	"github.com/lineagelabs/sqlens/internal/wrap"
	"github.com/lineagelabs/sqlens/pkg/format"
	"github.com/lineagelabs/sqlens/pkg/parser"
)

// ExpandOptions holds options for the expand command.
type ExpandOptions struct {
	MainTable bool
}

// NewExpandCommand creates the expand command.
func NewExpandCommand() *cobra.Command {
	opts := &ExpandOptions{}

	cmd := &cobra.Command{
		Use:   "expand <file>",
		Short: "Expand wildcards in a SQL query",
		Long: `Rewrite SELECT * projections into explicit column lists by resolving
them against the schemas of upstream CTEs, then print the result.

Wildcards over physical tables are left alone since their columns are
not knowable from the query text. Use "-" to read from stdin.`,
		Example: `  # Expand stars in a model file
  sqlens expand models/daily_revenue.sql

  # Expand a query from stdin
  cat query.sql | sqlens expand -

  # Show the main source table instead of the expanded SQL
  sqlens expand models/daily_revenue.sql --main-table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.MainTable, "main-table", false, "Print the main source table and exit")

	return cmd
}

func runExpand(cmd *cobra.Command, path string, opts *ExpandOptions) error {
	cfg := getConfig()

	sql, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	sql = strings.TrimSpace(wrap.Apply(sql, cfg.Rules()))
	if sql == "" {
		return fmt.Errorf("empty input")
	}

	stmt, err := parser.Parse(sql)
	if err != nil {
		return fmt.Errorf("parsing query: %w", err)
	}

	if opts.MainTable {
		sel, ok := stmt.(*parser.SelectStmt)
		if !ok {
			return fmt.Errorf("main table detection needs a SELECT statement")
		}
		name := wrap.MainTable(sel)
		if name == "" {
			name = "unknown"
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	}

	expand.Statement(stmt, config.GetLogger(cmd.Context()))
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), format.Pretty(stmt))
	return nil
}
