package dto

import (
	"github.com/musinov501/havas-api-clone/internal/translation"

	"github.com/google/uuid"
)

type RecipeIngredientInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  float64   `json:"quantity" validate:"required,gt=0"`
	Unit      string    `json:"unit" validate:"required,max=20"`
}

// RecipeCreateInput тексты рецепта не переводятся, Payload несет только файлы
type RecipeCreateInput struct {
	Title       string                  `form:"title" validate:"required,min=2,max=200"`
	Description string                  `form:"description" validate:"omitempty,max=2000"`
	CookTime    int                     `form:"cook_time" validate:"required,min=1"`
	Ingredients []RecipeIngredientInput `json:"-" form:"-"`

	Payload translation.WriteInput `json:"-" form:"-"`
}

type RecipeUpdateInput struct {
	Title       *string `form:"title" validate:"omitempty,min=2,max=200"`
	Description *string `form:"description" validate:"omitempty,max=2000"`
	CookTime    *int    `form:"cook_time" validate:"omitempty,min=1"`

	Payload translation.WriteInput `json:"-" form:"-"`
}
