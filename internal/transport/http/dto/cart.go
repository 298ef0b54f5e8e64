package dto

import (
	"github.com/google/uuid"
)

type CartCreateRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Name   string    `json:"name" validate:"omitempty,max=100"`
}

type CartItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
	Notes     string    `json:"notes" validate:"omitempty,max=255"`
}
