package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type DeviceType string

const (
	DeviceTypeMobile DeviceType = "MOBILE"
	DeviceTypeWeb    DeviceType = "WEB"
)

// Device зарегистрированное устройство. Токен выдается при регистрации
// и предъявляется в заголовке Token.
type Device struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      *uuid.UUID `json:"user_id" db:"user_id"`
	DeviceToken uuid.UUID  `json:"device_token" db:"device_token"`
	DeviceType  DeviceType `json:"device_type" db:"device_type"`
	Language    Language   `json:"language" db:"language"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

func (d *Device) Validate() error {
	switch d.DeviceType {
	case DeviceTypeMobile, DeviceTypeWeb:
	default:
		return fmt.Errorf("invalid device type %q", d.DeviceType)
	}
	if !d.Language.IsValid() {
		return fmt.Errorf("unsupported language %q", d.Language)
	}

	return nil
}
