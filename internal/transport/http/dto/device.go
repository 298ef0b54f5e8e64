package dto

import (
	"github.com/google/uuid"
)

type DeviceRegisterInput struct {
	DeviceType string     `json:"device_type" validate:"required,oneof=MOBILE WEB"`
	Language   string     `json:"language" validate:"omitempty"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
}

// UserRegisterInput нужен хотя бы один идентификатор, это проверяет домен
type UserRegisterInput struct {
	PhoneNumber string `json:"phone_number" validate:"omitempty,e164"`
	Email       string `json:"email" validate:"omitempty,email"`
	Username    string `json:"username" validate:"omitempty,min=3,max=50"`
	FirstName   string `json:"first_name" validate:"omitempty,max=100"`
	LastName    string `json:"last_name" validate:"omitempty,max=100"`
}
