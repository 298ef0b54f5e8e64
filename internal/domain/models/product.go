package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type MeasurementType string

const (
	MeasurementGram  MeasurementType = "GR"
	MeasurementPiece MeasurementType = "PC"
	MeasurementLitre MeasurementType = "L"
)

type ProductCategory string

const (
	CategoryBreakfast ProductCategory = "BREAKFAST"
	CategoryLunch     ProductCategory = "LUNCH"
	CategoryDinner    ProductCategory = "DINNER"
	CategoryAll       ProductCategory = "ALL"
)

func (c ProductCategory) IsValid() bool {
	switch c {
	case CategoryBreakfast, CategoryLunch, CategoryDinner, CategoryAll:
		return true
	}
	return false
}

// Product хранит только базовые (непереводимые) атрибуты.
// Тексты title/description живут в таблице переводов.
type Product struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Price           float64         `json:"price" db:"price"`
	Discount        int             `json:"discount" db:"discount"`
	RealPrice       float64         `json:"real_price" db:"real_price"`
	Category        ProductCategory `json:"category" db:"category"`
	MeasurementType MeasurementType `json:"measurement_type" db:"measurement_type"`
	IsActive        bool            `json:"is_active" db:"is_active"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// ApplyDiscount пересчитывает real_price из price и скидки
func (p *Product) ApplyDiscount() error {
	if p.Discount < 0 {
		return fmt.Errorf("discount cannot be negative")
	}
	if p.Discount > 100 {
		return fmt.Errorf("discount cannot be greater than 100%%")
	}

	p.RealPrice = p.Price - (p.Price * float64(p.Discount) / 100)

	return nil
}

func (p *Product) Validate() error {
	if p.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if !p.Category.IsValid() {
		return fmt.Errorf("invalid category %q", p.Category)
	}
	switch p.MeasurementType {
	case MeasurementGram, MeasurementPiece, MeasurementLitre:
	default:
		return fmt.Errorf("invalid measurement type %q", p.MeasurementType)
	}

	return p.ApplyDiscount()
}
