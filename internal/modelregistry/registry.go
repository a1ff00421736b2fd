// Package modelregistry loads per-domain model artifacts once at startup and
// serves them read-only.
package modelregistry

import (
	"context"
	"io/fs"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// LoadMetrics receives the outcome of each domain load.
type LoadMetrics interface {
	SetModelLoaded(model string, loaded bool)
}

type entry struct {
	set      *ArtifactSet
	err      error
	duration time.Duration
}

// Registry holds the loaded artifact sets. Entries are written only inside
// Open, so reads need no locking.
type Registry struct {
	entries map[Domain]entry
	logger  *slog.Logger
	metrics LoadMetrics
}

type Option func(*Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithMetrics(m LoadMetrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// Open loads every domain in parallel. A domain that fails to load is
// recorded and later reported as unavailable; Open itself never fails.
func Open(ctx context.Context, fsys fs.FS, domains []Domain, opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[Domain]entry, len(domains)),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	results := make([]entry, len(domains))
	g, gctx := errgroup.WithContext(ctx)
	for i, domain := range domains {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = entry{err: err}
				return err
			}
			start := time.Now()
			set, err := LoadArtifactSet(fsys, domain)
			results[i] = entry{set: set, err: err, duration: time.Since(start)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.logger.WarnContext(ctx, "model loading interrupted", "error", err)
	}

	for i, domain := range domains {
		e := results[i]
		r.entries[domain] = e
		if r.metrics != nil {
			r.metrics.SetModelLoaded(string(domain), e.err == nil)
		}
		if e.err != nil {
			r.logger.Error("model failed to load",
				"domain", domain,
				"error", e.err,
			)
			continue
		}
		r.logger.Info("model loaded",
			"domain", domain,
			"model_type", e.set.Manifest.ModelType,
			"performance", e.set.Manifest.Performance,
			"trees", e.set.Model.NumTrees(),
			"duration_ms", e.duration.Milliseconds(),
		)
	}
	return r
}

// Artifacts returns the loaded set for domain, or ModelUnavailableError.
func (r *Registry) Artifacts(domain Domain) (*ArtifactSet, error) {
	e, ok := r.entries[domain]
	if !ok {
		return nil, &ModelUnavailableError{Domain: domain}
	}
	if e.err != nil {
		return nil, &ModelUnavailableError{Domain: domain, Err: e.err}
	}
	return e.set, nil
}

// LookupCategoryCode maps a categorical value to its training-time code.
func (r *Registry) LookupCategoryCode(domain Domain, field, value string) (int, error) {
	set, err := r.Artifacts(domain)
	if err != nil {
		return 0, err
	}
	return set.CategoryCode(field, value)
}

// FeatureColumns returns a copy of the stored column order for domain.
func (r *Registry) FeatureColumns(domain Domain) ([]string, error) {
	set, err := r.Artifacts(domain)
	if err != nil {
		return nil, err
	}
	return set.Columns(), nil
}

// ModelStatus is the health view of one domain.
type ModelStatus struct {
	Loaded      bool   `json:"loaded"`
	Type        string `json:"type,omitempty"`
	Performance string `json:"performance,omitempty"`
	Version     string `json:"version,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Status reports every domain passed to Open.
func (r *Registry) Status() map[Domain]ModelStatus {
	out := make(map[Domain]ModelStatus, len(r.entries))
	for domain, e := range r.entries {
		if e.err != nil {
			out[domain] = ModelStatus{Loaded: false, Error: "artifacts failed to load"}
			continue
		}
		out[domain] = ModelStatus{
			Loaded:      true,
			Type:        e.set.Manifest.ModelType,
			Performance: e.set.Manifest.Performance,
			Version:     e.set.Manifest.Version,
		}
	}
	return out
}

// AllLoaded reports whether every domain is serving.
func (r *Registry) AllLoaded() bool {
	for _, e := range r.entries {
		if e.err != nil {
			return false
		}
	}
	return true
}
