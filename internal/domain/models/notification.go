package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationProduct NotificationType = "PRODUCT"
	NotificationSystem  NotificationType = "SYSTEM"
	NotificationUser    NotificationType = "USER"
)

// Notification уведомление. RecipientID == nil означает рассылку всем.
type Notification struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	Title       string           `json:"title" db:"title"`
	Message     string           `json:"message" db:"message"`
	Type        NotificationType `json:"type" db:"type"`
	ProductID   *uuid.UUID       `json:"product_id" db:"product_id"`
	RecipientID *uuid.UUID       `json:"recipient_id" db:"recipient_id"`
	IsRead      bool             `json:"is_read" db:"is_read"`
	Language    Language         `json:"language" db:"language"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}
