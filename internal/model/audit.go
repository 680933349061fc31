package model

import "time"

// AuditLog records a security-relevant event. UserID is nil when the event
// could not be attributed to an account (e.g. a failed login).
type AuditLog struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
