package db

import (
	"context"

	"github.com/cloudcorenow/backend/internal/model"
)

func (db *Postgres) ListVMMetrics(ctx context.Context, vmID string, limit int) ([]model.VMMetric, error) {
	query := `
		SELECT vm_id, cpu_percent, memory_percent, disk_percent, recorded_at
		FROM vm_metrics
		WHERE vm_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`
	rows, err := db.Pool.Query(ctx, query, vmID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.VMMetric
	for rows.Next() {
		var m model.VMMetric
		if err := rows.Scan(&m.VMID, &m.CPUPercent, &m.MemoryPercent, &m.DiskPercent, &m.RecordedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if list == nil {
		list = []model.VMMetric{}
	}
	return list, nil
}
