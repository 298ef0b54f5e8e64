package models

import (
	"time"

	"github.com/google/uuid"
)

// Translation строка перевода. Не более одной на (владелец, поле, язык).
type Translation struct {
	OwnerType OwnerType `json:"owner_type" db:"owner_type"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	Field     string    `json:"field" db:"field"`
	Language  Language  `json:"language" db:"language"`
	Value     string    `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
