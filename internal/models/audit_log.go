package models

import "time"

// AuditLog records sensitive user operations: emergency overrides, blocklist
// edits and limit changes.
type AuditLog struct {
	ID           string         `json:"id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	IPAddress    string         `json:"ip_address,omitempty"`
	Changes      map[string]any `json:"changes,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
