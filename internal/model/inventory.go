package model

import "time"

// Inventory records for the dashboard schema. Lifecycle operations on these
// live outside the auth core; the types exist for the schema and the
// monitoring read paths.

type CloudProvider struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type VM struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type VMMetric struct {
	VMID          string    `json:"vm_id"`
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent"`
	DiskPercent   float64   `json:"disk_percent"`
	RecordedAt    time.Time `json:"recorded_at"`
}
