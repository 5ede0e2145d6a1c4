package format

import (
	"regexp"

	"github.com/lineagelabs/sqlens/pkg/parser"
)

var blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)

// Clean parses and reformats a SQL statement, dropping comments along
// the way. When the input does not parse, the original text is returned
// together with the parse error so callers can decide how to proceed.
func Clean(sql string) (string, error) {
	stmt, err := parser.Parse(sql)
	if err != nil {
		return sql, err
	}
	out := Pretty(stmt)
	return blockCommentRe.ReplaceAllString(out, ""), nil
}
