package batch

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lineagelabs/sqlens/internal/wrap"
)

// Frontmatter holds per-file settings parsed from a model's YAML
// frontmatter block. Name overrides the target table derived from the
// file name; Replacements are applied after the globally configured
// rules.
type Frontmatter struct {
	Name         string            `yaml:"name"`
	Description  string            `yaml:"description"`
	Owner        string            `yaml:"owner"`
	Tags         []string          `yaml:"tags"`
	Replacements []FrontmatterRule `yaml:"replacements"`
}

// FrontmatterRule is one substitution declared in frontmatter.
type FrontmatterRule struct {
	Old string `yaml:"old"`
	New string `yaml:"new"`
}

// Rules converts the frontmatter replacements into wrap rules.
func (f *Frontmatter) Rules() []wrap.Rule {
	if f == nil || len(f.Replacements) == 0 {
		return nil
	}
	rules := make([]wrap.Rule, len(f.Replacements))
	for i, r := range f.Replacements {
		rules[i] = wrap.Rule{Old: r.Old, New: r.New}
	}
	return rules
}

// frontmatterPattern matches /*--- ... ---*/ blocks at the top of a file.
var frontmatterPattern = regexp.MustCompile(`(?s)^\s*/\*---\s*\n(.*?)\s*---\*/`)

// ExtractFrontmatter splits a model file into its frontmatter settings
// and the SQL that follows. Files without a frontmatter block come back
// with a nil Frontmatter and their content untouched. Unknown fields in
// the block are an error so typos do not silently vanish.
func ExtractFrontmatter(content string) (*Frontmatter, string, error) {
	matches := frontmatterPattern.FindStringSubmatch(content)
	if len(matches) < 2 {
		return nil, content, nil
	}

	sql := strings.TrimSpace(frontmatterPattern.ReplaceAllString(content, ""))

	var fm Frontmatter
	dec := yaml.NewDecoder(bytes.NewReader([]byte(matches[1])))
	dec.KnownFields(true)
	if err := dec.Decode(&fm); err != nil {
		return nil, content, fmt.Errorf("parsing frontmatter: %w", err)
	}

	return &fm, sql, nil
}
