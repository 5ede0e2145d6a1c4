// Package batch runs the full lineage pipeline over SQL text, files,
// and directories: substitution rules, INSERT wrapping, parsing,
// wildcard expansion, chain resolution, and edge flattening. Directory
// runs process files concurrently with per-file failure isolation, so
// one broken model never sinks the rest.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lineagelabs/sqlens/internal/edges"
	"github.com/lineagelabs/sqlens/internal/expand"
	"github.com/lineagelabs/sqlens/internal/wrap"
	"github.com/lineagelabs/sqlens/pkg/lineage"
)

// Extractor drives lineage extraction. The zero value is not usable;
// construct with New.
type Extractor struct {
	rules   []wrap.Rule
	logger  *slog.Logger
	workers int
	cache   *Cache
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRules sets the literal substitution rules applied before parsing.
func WithRules(rules []wrap.Rule) Option {
	return func(e *Extractor) { e.rules = rules }
}

// WithLogger sets the logger used for per-file diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

// WithWorkers caps the number of files processed concurrently. Values
// below one keep the default.
func WithWorkers(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithCacheSize sizes the parse cache.
func WithCacheSize(n int) Option {
	return func(e *Extractor) { e.cache = NewCache(n) }
}

// New returns an Extractor with defaults: no rules, the default
// logger, GOMAXPROCS workers, and a DefaultCacheSize parse cache.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		logger:  slog.Default(),
		workers: runtime.GOMAXPROCS(0),
		cache:   NewCache(DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractSQL runs the pipeline on one query. filename, when non-empty,
// names the synthetic target table for unwrapped SELECTs. The returned
// edges are deduplicated and in first-seen order.
func (e *Extractor) ExtractSQL(sql, filename string) ([]edges.Edge, error) {
	wrapped, err := wrap.Insert(sql, e.rules, filename)
	if err != nil {
		return nil, fmt.Errorf("wrapping query: %w", err)
	}

	stmt, err := e.cache.Parse(wrapped)
	if err != nil {
		return nil, fmt.Errorf("parsing query: %w", err)
	}

	if !expand.Statement(stmt, e.logger) {
		e.logger.Warn("proceeding with partially expanded query", "file", filename)
	}

	chains, err := lineage.ChainsForStatement(stmt)
	if err != nil {
		return nil, fmt.Errorf("resolving lineage: %w", err)
	}

	return edges.Dedupe(edges.Flatten(chains, e.logger)), nil
}

// ExtractFile reads one SQL file and extracts its lineage. Empty files
// yield no edges and no error. A frontmatter block, when present, can
// rename the target table and add per-file substitution rules.
func (e *Extractor) ExtractFile(path string) ([]edges.Edge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fm, sql, err := ExtractFrontmatter(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sql = strings.TrimSpace(sql)
	if sql == "" {
		e.logger.Debug("skipping empty file", "file", path)
		return nil, nil
	}

	filename := filepath.Base(path)
	if fm != nil && fm.Name != "" {
		filename = fm.Name
	}
	sql = wrap.Apply(sql, fm.Rules())
	return e.ExtractSQL(sql, filename)
}

// ExtractDir extracts lineage from every .sql file directly under dir
// and returns the union of their edges, deduplicated. Files are
// processed concurrently. A file that fails to parse or resolve is
// logged and skipped; only I/O on the directory itself or context
// cancellation fails the whole run.
func (e *Extractor) ExtractDir(ctx context.Context, dir string) ([]edges.Edge, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	results := make([][]edges.Edge, len(files))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers)
	for i, path := range files {
		i, path := i, path
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			found, err := e.ExtractFile(path)
			if err != nil {
				e.logger.Warn("skipping file", "file", path, "error", err)
				return nil
			}
			results[i] = found
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []edges.Edge
	for _, found := range results {
		all = append(all, found...)
	}
	return edges.Dedupe(all), nil
}
