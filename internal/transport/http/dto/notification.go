package dto

import (
	"github.com/google/uuid"
)

// NotificationInput RecipientID == nil означает широковещательное уведомление
type NotificationInput struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Message     string     `json:"message" validate:"required,min=1"`
	Type        string     `json:"type" validate:"required,oneof=PRODUCT SYSTEM USER"`
	Language    string     `json:"language" validate:"required"`
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
	RecipientID *uuid.UUID `json:"recipient_id,omitempty"`
}
