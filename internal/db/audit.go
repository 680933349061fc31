package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/cloudcorenow/backend/internal/model"
)

func (db *Postgres) InsertAuditLog(ctx context.Context, entry *model.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, action, detail, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := db.Pool.Exec(ctx, query, uuid.New().String(), entry.UserID, entry.Action, entry.Detail)
	return err
}

func (db *Postgres) ListAuditLogs(ctx context.Context, limit int) ([]model.AuditLog, error) {
	query := `
		SELECT id, user_id, action, detail, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.AuditLog
	for rows.Next() {
		var entry model.AuditLog
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Action, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if list == nil {
		list = []model.AuditLog{}
	}
	return list, nil
}
