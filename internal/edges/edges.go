// Package edges flattens lineage chains into pairwise source/derived
// column edges, the flat table shape downstream consumers ingest.
package edges

import (
	"log/slog"
	"strings"

	"github.com/lineagelabs/sqlens/pkg/lineage"
)

// UnknownTable marks chain elements that could not be attributed to a
// concrete table.
const UnknownTable = "<unknown>"

// Edge is one directed column dependency: the derived column reads from
// the source column.
type Edge struct {
	SourceTable   string `json:"source_table"`
	SourceColumn  string `json:"source_column"`
	DerivedTable  string `json:"derived_table"`
	DerivedColumn string `json:"derived_column"`
}

// Flatten turns each chain into consecutive edges, with chain[i] as the
// derived side and chain[i+1] as its source. Chains shorter than two
// elements produce nothing. A malformed chain is skipped with a log
// line rather than failing the batch.
func Flatten(chains []lineage.Chain, logger *slog.Logger) []Edge {
	if logger == nil {
		logger = slog.Default()
	}
	var out []Edge
	for _, chain := range chains {
		cleaned, ok := normalize(chain)
		if !ok {
			logger.Warn("skipping malformed lineage chain", "chain", []string(chain))
			continue
		}
		for i := 0; i+1 < len(cleaned); i++ {
			dt, dc := splitQualified(cleaned[i])
			st, sc := splitQualified(cleaned[i+1])
			out = append(out, Edge{
				SourceTable:   st,
				SourceColumn:  sc,
				DerivedTable:  dt,
				DerivedColumn: dc,
			})
		}
	}
	return out
}

// Dedupe removes duplicate edges, keeping first-seen order.
func Dedupe(in []Edge) []Edge {
	seen := make(map[Edge]struct{}, len(in))
	out := make([]Edge, 0, len(in))
	for _, e := range in {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

// normalize strips default-schema markers and forces every element into
// table.column shape, tagging anything else with the unknown table.
func normalize(chain lineage.Chain) ([]string, bool) {
	out := make([]string, 0, len(chain))
	for _, el := range chain {
		el = strings.ReplaceAll(el, lineage.DefaultSchema+".", "")
		if el == "" {
			return nil, false
		}
		if strings.Count(el, ".") != 1 {
			el = UnknownTable + "." + el
		}
		out = append(out, el)
	}
	return out, true
}

func splitQualified(el string) (table, column string) {
	table, column, _ = strings.Cut(el, ".")
	return table, column
}
