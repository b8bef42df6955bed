package models

import "time"

const (
	EntityProject  = "project"
	EntityTask     = "task"
	EntityCategory = "category"
)

type AuditLog struct {
	ID         string         `json:"id"`
	EntityType string         `json:"entity_type"`
	EntityID   *string        `json:"entity_id"`
	ActorID    string         `json:"actor_id,omitempty"`
	Action     string         `json:"action"`
	Details    map[string]any `json:"details"`
	CreatedAt  time.Time      `json:"created_at"`
}
