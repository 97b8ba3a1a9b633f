// Package engine wires the registry, matcher, resolver, and composer
// into a single query surface: free text plus optional bundle-id hints
// in, an ordered guidance composition out.
package engine

import (
	"context"

	"github.com/pkg/errors"

	"github.com/paul-ooi/skillet/pkg/composer"
	"github.com/paul-ooi/skillet/pkg/logger"
	"github.com/paul-ooi/skillet/pkg/matcher"
	"github.com/paul-ooi/skillet/pkg/registry"
	"github.com/paul-ooi/skillet/pkg/resolver"
)

// Engine serves guidance queries against a loaded bundle registry.
// Queries are safe to run concurrently once Load has succeeded; a
// Refresh swaps the underlying snapshot atomically, so in-flight
// queries complete against either the old snapshot or the new one,
// never a mix.
type Engine struct {
	registry *registry.Registry
	matcher  *matcher.Matcher
	resolver *resolver.Resolver
	composer *composer.Composer
}

// Option is a function that configures an Engine
type Option func(*config)

type config struct {
	threshold     float64
	loaderOptions []registry.Option
}

// WithThreshold sets the minimum relevance score for activation.
func WithThreshold(threshold float64) Option {
	return func(c *config) {
		c.threshold = threshold
	}
}

// WithSourceDirs sets the bundle source directories.
func WithSourceDirs(dirs ...string) Option {
	return func(c *config) {
		c.loaderOptions = append(c.loaderOptions, registry.WithSourceDirs(dirs...))
	}
}

// New creates an engine. Call Load before serving queries.
func New(opts ...Option) (*Engine, error) {
	cfg := &config{threshold: resolver.DefaultThreshold}
	for _, opt := range opts {
		opt(cfg)
	}

	reg, err := registry.New(cfg.loaderOptions...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create registry")
	}

	return &Engine{
		registry: reg,
		matcher:  matcher.New(),
		resolver: resolver.NewWithThreshold(cfg.threshold),
		composer: composer.New(),
	}, nil
}

// Load reads the bundle sources and installs the initial snapshot.
func (e *Engine) Load(ctx context.Context) error {
	return e.registry.Load(ctx)
}

// Refresh re-reads the bundle sources and atomically replaces the
// snapshot. On failure the previous snapshot remains active.
func (e *Engine) Refresh(ctx context.Context) error {
	return e.registry.Refresh(ctx)
}

// Registry exposes the underlying registry for direct lookups.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Query matches, resolves, and composes guidance for a single request.
// An unknown hint id is a NotFoundError. A query matching nothing
// above the threshold returns a well-formed empty composition, not an
// error.
func (e *Engine) Query(ctx context.Context, query matcher.Query) (*composer.Composition, error) {
	snap := e.registry.Snapshot()
	if snap == nil {
		return nil, errors.New("registry not loaded")
	}

	// Hints must name existing bundles; matching by text never fails.
	for _, hint := range query.Hints {
		if _, err := snap.Get(hint); err != nil {
			return nil, err
		}
	}

	ranked := e.matcher.Rank(query, snap.All())
	activations := e.resolver.Resolve(snap, ranked)

	log := logger.G(ctx).WithField("query", query.Text)
	if len(activations) == 0 {
		log.Debug("No bundle above relevance threshold")
		return &composer.Composition{Entries: []composer.Entry{}}, nil
	}

	comp, err := e.composer.Compose(snap, activations)
	if err != nil {
		return nil, err
	}

	log.WithField("bundles", len(comp.Entries)).Debug("Composed guidance")
	return comp, nil
}
