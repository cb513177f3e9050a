package models

import (
	"time"
)

// AIExecution is the audit record of one agent run. Writes are best-effort:
// a failure to log never fails the execution that produced it.
type AIExecution struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	AgentID   uint              `gorm:"not null;index" json:"agent_id"`
	Agent     AIAgent           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"agent"`
	Content   string            `gorm:"type:text" json:"content"` // truncated to 10k chars
	Result    string            `gorm:"type:text" json:"result"`  // truncated to 50k chars
	Metadata  map[string]string `gorm:"type:json;serializer:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}
