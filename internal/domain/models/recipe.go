package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Recipe пользовательский рецепт. Картинка хранится как общее медиа.
type Recipe struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	CookTime    int       `json:"cook_time" db:"cook_time"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (r *Recipe) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.CookTime <= 0 {
		return fmt.Errorf("cook time must be positive")
	}

	return nil
}

type RecipeIngredient struct {
	ID        uuid.UUID `json:"id" db:"id"`
	RecipeID  uuid.UUID `json:"recipe_id" db:"recipe_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  float64   `json:"quantity" db:"quantity"`
	Unit      string    `json:"unit" db:"unit"`
}
