package monitor

import (
	"context"

	"github.com/cloudcorenow/backend/internal/model"
)

const defaultLimit = 100

// LocalStore is the slice of the database the local source reads from.
type LocalStore interface {
	ListAuditLogs(ctx context.Context, limit int) ([]model.AuditLog, error)
	ListVMMetrics(ctx context.Context, vmID string, limit int) ([]model.VMMetric, error)
}

// LocalSource serves application events and locally collected VM metrics.
type LocalSource struct {
	store LocalStore
}

func NewLocalSource(store LocalStore) *LocalSource {
	return &LocalSource{store: store}
}

func (s *LocalSource) Provider() string {
	return "local"
}

func (s *LocalSource) Logs(ctx context.Context, limit int) ([]model.AuditLog, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.store.ListAuditLogs(ctx, limit)
}

func (s *LocalSource) Metrics(ctx context.Context, vmID string, limit int) ([]model.VMMetric, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.store.ListVMMetrics(ctx, vmID, limit)
}
