package dto

import (
	"time"

	"github.com/musinov501/havas-api-clone/internal/translation"

	"github.com/google/uuid"
)

type SurveyInput struct {
	Question string   `json:"question" validate:"required,min=3"`
	Options  []string `json:"options" validate:"required,min=2,dive,required"`
}

type StoryCreateInput struct {
	StoryType string     `form:"story_type" validate:"required,oneof=promo survey"`
	StartDate time.Time  `form:"start_date" validate:"required"`
	EndDate   time.Time  `form:"end_date" validate:"required"`
	IsActive  bool       `form:"is_active"`
	ProductID *uuid.UUID `form:"product_id"`

	// для story_type=survey
	Survey *SurveyInput `json:"-" form:"-"`

	Payload translation.WriteInput `json:"-" form:"-"`
}

type StoryUpdateInput struct {
	StartDate *time.Time `form:"start_date"`
	EndDate   *time.Time `form:"end_date"`
	IsActive  *bool      `form:"is_active"`
	ProductID *uuid.UUID `form:"product_id"`

	Payload translation.WriteInput `json:"-" form:"-"`
}

type SurveyVoteRequest struct {
	UserID   uuid.UUID  `json:"user_id" validate:"required"`
	OptionID uuid.UUID  `json:"option_id" validate:"required"`
	DeviceID *uuid.UUID `json:"device_id,omitempty"`
}
