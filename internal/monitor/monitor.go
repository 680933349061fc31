// Package monitor exposes per-provider log and metric sources. Only the
// local source is backed by real data today; the cloud providers are typed
// as unavailable rather than returning silently empty results.
package monitor

import (
	"context"
	"errors"

	"github.com/cloudcorenow/backend/internal/model"
)

var ErrSourceUnavailable = errors.New("monitoring source not available")

type LogSource interface {
	Logs(ctx context.Context, limit int) ([]model.AuditLog, error)
}

type MetricSource interface {
	Metrics(ctx context.Context, vmID string, limit int) ([]model.VMMetric, error)
}

type Source interface {
	Provider() string
	LogSource
	MetricSource
}

// Registry maps provider names to their sources.
type Registry struct {
	sources map[string]Source
}

func NewRegistry(sources ...Source) *Registry {
	reg := &Registry{sources: make(map[string]Source, len(sources))}
	for _, src := range sources {
		reg.sources[src.Provider()] = src
	}
	return reg
}

func (r *Registry) Lookup(provider string) (Source, bool) {
	src, ok := r.sources[provider]
	return src, ok
}

// UnavailableSource stands in for a provider whose collection agent is not
// integrated yet. Every read fails with ErrSourceUnavailable.
type UnavailableSource struct {
	provider string
}

func NewUnavailableSource(provider string) *UnavailableSource {
	return &UnavailableSource{provider: provider}
}

func (s *UnavailableSource) Provider() string {
	return s.provider
}

func (s *UnavailableSource) Logs(ctx context.Context, limit int) ([]model.AuditLog, error) {
	return nil, ErrSourceUnavailable
}

func (s *UnavailableSource) Metrics(ctx context.Context, vmID string, limit int) ([]model.VMMetric, error) {
	return nil, ErrSourceUnavailable
}
