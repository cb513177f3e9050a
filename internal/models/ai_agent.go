package models

import (
	"time"
)

// AgentConfig is the per-agent model configuration, stored as a JSON column.
// Zero values mean "use the backend defaults".
type AgentConfig struct {
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"maxTokens,omitempty"`
}

// AIAgent is a named prompt preset. UserPrompt may contain {{content}} and
// arbitrary {{key}} placeholders filled in at execution time.
type AIAgent struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"size:120;not null" json:"name"`
	Type         string      `gorm:"size:40;index" json:"type"` // free-form category: grammar, critique...
	Description  string      `gorm:"size:500" json:"description"`
	SystemPrompt string      `gorm:"type:text;not null" json:"system_prompt"`
	UserPrompt   string      `gorm:"type:text" json:"user_prompt"`
	Enabled      bool        `gorm:"default:true" json:"enabled"`
	Config       AgentConfig `gorm:"type:json;serializer:json" json:"config"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
