package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type StoryType string

const (
	StoryTypePromo  StoryType = "promo"
	StoryTypeSurvey StoryType = "survey"
)

// Story промо-история или опрос. Тексты title/description переводимы.
type Story struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	StoryType StoryType  `json:"story_type" db:"story_type"`
	StartDate time.Time  `json:"start_date" db:"start_date"`
	EndDate   time.Time  `json:"end_date" db:"end_date"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	ProductID *uuid.UUID `json:"product_id" db:"product_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

func (s *Story) Validate() error {
	switch s.StoryType {
	case StoryTypePromo, StoryTypeSurvey:
	default:
		return fmt.Errorf("invalid story type %q", s.StoryType)
	}
	if !s.EndDate.After(s.StartDate) {
		return fmt.Errorf("end date must be after start date")
	}

	return nil
}

// Survey один опрос на историю
type Survey struct {
	ID        uuid.UUID `json:"id" db:"id"`
	StoryID   uuid.UUID `json:"story_id" db:"story_id"`
	Question  string    `json:"question" db:"question"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type SurveyOption struct {
	ID         uuid.UUID `json:"id" db:"id"`
	SurveyID   uuid.UUID `json:"survey_id" db:"survey_id"`
	OptionText string    `json:"option_text" db:"option_text"`
	Order      int       `json:"order" db:"sort_order"`
}

// SurveyResponse голос пользователя, не более одного на опрос
type SurveyResponse struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	SurveyID  uuid.UUID  `json:"survey_id" db:"survey_id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	OptionID  uuid.UUID  `json:"option_id" db:"option_id"`
	DeviceID  *uuid.UUID `json:"device_id" db:"device_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
