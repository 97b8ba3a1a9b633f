// Package registry loads and indexes guidance bundles from directory
// trees of SKILL.md documents. A load produces an immutable Snapshot;
// the Registry swaps snapshots atomically so in-flight queries always
// see a single consistent bundle set, never a partially refreshed one.
package registry

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/paul-ooi/skillet/pkg/logger"
)

// Registry holds the current bundle snapshot. Reads are lock-free;
// Refresh builds a whole new snapshot and swaps it in, leaving the
// previous one active if the load fails.
type Registry struct {
	loader *Loader
	snap   atomic.Pointer[Snapshot]
}

// New creates a registry with the given loader options. No sources are
// read until Load is called.
func New(opts ...Option) (*Registry, error) {
	loader, err := NewLoader(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bundle loader")
	}
	return &Registry{loader: loader}, nil
}

// Load reads the bundle sources and installs the resulting snapshot.
// On failure the registry keeps whatever snapshot was active before.
func (r *Registry) Load(ctx context.Context) error {
	snap, err := r.loader.Load()
	if err != nil {
		return err
	}

	r.snap.Store(snap)
	logger.G(ctx).WithField("bundles", snap.Len()).Debug("Loaded bundle registry")
	return nil
}

// Refresh re-reads the sources and atomically replaces the snapshot.
func (r *Registry) Refresh(ctx context.Context) error {
	return r.Load(ctx)
}

// Snapshot returns the current snapshot, or nil if Load has never
// succeeded.
func (r *Registry) Snapshot() *Snapshot {
	return r.snap.Load()
}
