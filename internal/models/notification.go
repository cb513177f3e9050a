package models

import (
	"time"
)

type NotificationType string

const (
	NotificationTypeComment NotificationType = "comment"
	NotificationTypeSystem  NotificationType = "system"
)

type Notification struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    uint              `gorm:"not null;index" json:"user_id"` // receiver
	Type      NotificationType  `gorm:"size:20;not null" json:"type"`
	Title     string            `gorm:"size:200;not null" json:"title"`
	Message   string            `gorm:"type:text" json:"message"`
	Link      string            `gorm:"size:500" json:"link"`
	Metadata  map[string]string `gorm:"type:json;serializer:json" json:"metadata"`
	IsRead    bool              `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time         `json:"created_at"`
}
