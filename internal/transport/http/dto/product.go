package dto

import (
	"github.com/musinov501/havas-api-clone/internal/translation"
)

// ProductCreateInput базовые атрибуты из multipart-формы; переводимые
// тексты и файлы приходят в Payload и валидируются экспандером
type ProductCreateInput struct {
	Price           float64 `form:"price" validate:"min=0"`
	Discount        int     `form:"discount" validate:"min=0,max=100"`
	Category        string  `form:"category" validate:"required,oneof=BREAKFAST LUNCH DINNER ALL"`
	MeasurementType string  `form:"measurement_type" validate:"required,oneof=GR PC L"`
	IsActive        bool    `form:"is_active"`

	Payload translation.WriteInput `json:"-" form:"-"`
}

type ProductUpdateInput struct {
	Price           *float64 `form:"price" validate:"omitempty,min=0"`
	Discount        *int     `form:"discount" validate:"omitempty,min=0,max=100"`
	Category        *string  `form:"category" validate:"omitempty,oneof=BREAKFAST LUNCH DINNER ALL"`
	MeasurementType *string  `form:"measurement_type" validate:"omitempty,oneof=GR PC L"`
	IsActive        *bool    `form:"is_active"`

	Payload translation.WriteInput `json:"-" form:"-"`
}
