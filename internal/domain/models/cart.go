package models

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CartID    uuid.UUID `json:"cart_id" db:"cart_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Notes     string    `json:"notes" db:"notes"`

	// заполняется из products при чтении
	ProductPrice float64 `json:"-" db:"product_price"`
}

// EstimatedPrice стоимость позиции по актуальной цене товара
func (i CartItem) EstimatedPrice() float64 {
	return float64(i.Quantity) * i.ProductPrice
}
