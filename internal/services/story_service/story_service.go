package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/musinov501/havas-api-clone/internal/domain/models"
	"github.com/musinov501/havas-api-clone/internal/lib/logger/sl"
	"github.com/musinov501/havas-api-clone/internal/metrics"
	"github.com/musinov501/havas-api-clone/internal/repository"
	"github.com/musinov501/havas-api-clone/internal/storage"
	filestorage "github.com/musinov501/havas-api-clone/internal/storage/filestorage"
	"github.com/musinov501/havas-api-clone/internal/translation"
	"github.com/musinov501/havas-api-clone/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// StoryFields тексты и картинка истории переводимы, по одной картинке на язык
var StoryFields = translation.FieldSet{
	Owner:        models.OwnerTypeStory,
	Translatable: []string{"title", "description", "image"},
	Media:        []string{"image"},
}

type StoryService struct {
	log          *slog.Logger
	db           Transactor
	repo         repository.StoryRepository
	translations repository.TranslationRepository
	media        repository.MediaRepository
	fileStorage  filestorage.FileStorage
	writer       *translation.Writer
	reader       *translation.Reader
}

func NewStoryService(
	log *slog.Logger,
	db Transactor,
	repo repository.StoryRepository,
	translations repository.TranslationRepository,
	media repository.MediaRepository,
	fileStorage filestorage.FileStorage,
) *StoryService {
	return &StoryService{
		log:          log,
		db:           db,
		repo:         repo,
		translations: translations,
		media:        media,
		fileStorage:  fileStorage,
		writer:       translation.NewWriter(log, fileStorage),
		reader:       translation.NewReader(log, translations, media, fileStorage),
	}
}

// CreateStory атомарно создает историю, переводы, медиа и, для типа survey,
// опрос с вариантами ответа
func (s *StoryService) CreateStory(ctx context.Context, input dto.StoryCreateInput) (uuid.UUID, error) {
	const op = "story_service.CreateStory"

	log := s.log.With(slog.String("op", op))

	schema := translation.SchemaFor(StoryFields)

	now := time.Now().UTC()
	story := models.Story{
		ID:        uuid.New(),
		StoryType: models.StoryType(input.StoryType),
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		IsActive:  input.IsActive,
		ProductID: input.ProductID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := story.Validate(); err != nil {
		log.Warn("story validation failed", sl.Err(err))
		return uuid.Nil, &translation.ValidationError{Reason: err.Error()}
	}
	if story.StoryType == models.StoryTypeSurvey && input.Survey == nil {
		return uuid.Nil, &translation.ValidationError{Reason: "survey story requires a survey block"}
	}
	if err := s.writer.Validate(schema, input.Payload); err != nil {
		log.Warn("payload validation failed", sl.Err(err))
		return uuid.Nil, err
	}

	var savedFiles []string

	err := s.db.WithinTx(ctx, func(tx pgx.Tx) error {
		txRepo := s.repo.WithTx(tx)

		if _, err := txRepo.SaveStory(ctx, story); err != nil {
			return err
		}

		saved, err := s.writer.Apply(ctx, s.translations.WithTx(tx), s.media.WithTx(tx), schema, story.ID, input.Payload)
		if err != nil {
			return err
		}
		savedFiles = saved

		if input.Survey != nil {
			surveyID, err := txRepo.SaveSurvey(ctx, models.Survey{
				ID:        uuid.New(),
				StoryID:   story.ID,
				Question:  input.Survey.Question,
				CreatedAt: now,
			})
			if err != nil {
				return err
			}

			for i, text := range input.Survey.Options {
				_, err := txRepo.SaveSurveyOption(ctx, models.SurveyOption{
					ID:         uuid.New(),
					SurveyID:   surveyID,
					OptionText: text,
					Order:      i,
				})
				if err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		for _, path := range savedFiles {
			_ = s.fileStorage.Delete(ctx, path)
		}
		log.Error("failed to create story", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.MediaUploadsTotal.WithLabelValues(string(models.OwnerTypeStory)).Add(float64(len(savedFiles)))

	log.Info("story created", slog.String("story_id", story.ID.String()))

	return story.ID, nil
}

func (s *StoryService) UpdateStory(ctx context.Context, storyID uuid.UUID, input dto.StoryUpdateInput) error {
	const op = "story_service.UpdateStory"

	log := s.log.With(
		slog.String("op", op),
		slog.String("story_id", storyID.String()),
	)

	existing, err := s.repo.GetStoryByID(ctx, storyID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	updates := make(map[string]interface{})
	merged := *existing

	if input.StartDate != nil {
		merged.StartDate = *input.StartDate
		updates["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		merged.EndDate = *input.EndDate
		updates["end_date"] = *input.EndDate
	}
	if input.IsActive != nil {
		merged.IsActive = *input.IsActive
		updates["is_active"] = *input.IsActive
	}
	if input.ProductID != nil {
		merged.ProductID = input.ProductID
		updates["product_id"] = *input.ProductID
	}

	if err := merged.Validate(); err != nil {
		log.Warn("story validation failed", sl.Err(err))
		return &translation.ValidationError{Reason: err.Error()}
	}

	schema := translation.SchemaFor(StoryFields)
	if err := s.writer.Validate(schema, input.Payload); err != nil {
		log.Warn("payload validation failed", sl.Err(err))
		return err
	}

	updates["updated_at"] = time.Now().UTC()

	var savedFiles []string

	err = s.db.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := s.repo.WithTx(tx).UpdateStoryFields(ctx, storyID, updates); err != nil {
			return err
		}

		saved, err := s.writer.Apply(ctx, s.translations.WithTx(tx), s.media.WithTx(tx), schema, storyID, input.Payload)
		if err != nil {
			return err
		}
		savedFiles = saved

		return nil
	})
	if err != nil {
		for _, path := range savedFiles {
			_ = s.fileStorage.Delete(ctx, path)
		}
		log.Error("failed to update story", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("story updated")

	return nil
}

// GetStory представление истории; для survey-историй добавляется блок опроса
func (s *StoryService) GetStory(ctx context.Context, storyID uuid.UUID, rctx translation.RequestContext) (map[string]interface{}, error) {
	const op = "story_service.GetStory"

	story, err := s.repo.GetStoryByID(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.represent(ctx, story, rctx)
}

func (s *StoryService) ListStories(ctx context.Context, page, perPage int, rctx translation.RequestContext) ([]map[string]interface{}, int, error) {
	const op = "story_service.ListStories"

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	stories, total, err := s.repo.ListStories(ctx, true, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]map[string]interface{}, 0, len(stories))
	for i := range stories {
		rep, err := s.represent(ctx, &stories[i], rctx)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, rep)
	}

	return out, total, nil
}

func (s *StoryService) DeleteStory(ctx context.Context, storyID uuid.UUID) error {
	const op = "story_service.DeleteStory"

	log := s.log.With(
		slog.String("op", op),
		slog.String("story_id", storyID.String()),
	)

	var orphanedFiles []string

	err := s.db.WithinTx(ctx, func(tx pgx.Tx) error {
		paths, err := s.media.WithTx(tx).DeleteMediaByOwner(ctx, models.OwnerTypeStory, storyID)
		if err != nil {
			return err
		}
		orphanedFiles = paths

		if err := s.translations.WithTx(tx).DeleteTranslationsByOwner(ctx, models.OwnerTypeStory, storyID); err != nil {
			return err
		}

		return s.repo.WithTx(tx).DeleteStory(ctx, storyID)
	})
	if err != nil {
		log.Error("failed to delete story", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, path := range orphanedFiles {
		if err := s.fileStorage.Delete(ctx, path); err != nil {
			log.Warn("failed to remove stored file", slog.String("path", path), sl.Err(err))
		}
	}

	log.Info("story deleted")

	return nil
}

// Vote голос в опросе истории, повторный голос отклоняется хранилищем
func (s *StoryService) Vote(ctx context.Context, storyID, userID, optionID uuid.UUID, deviceID *uuid.UUID) error {
	const op = "story_service.Vote"

	log := s.log.With(
		slog.String("op", op),
		slog.String("story_id", storyID.String()),
		slog.String("user_id", userID.String()),
	)

	survey, options, err := s.repo.GetSurveyByStoryID(ctx, storyID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	valid := false
	for _, o := range options {
		if o.ID == optionID {
			valid = true
			break
		}
	}
	if !valid {
		return &translation.ValidationError{Reason: "option does not belong to this survey"}
	}

	err = s.repo.SaveSurveyResponse(ctx, models.SurveyResponse{
		ID:        uuid.New(),
		SurveyID:  survey.ID,
		UserID:    userID,
		OptionID:  optionID,
		DeviceID:  deviceID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		log.Warn("failed to save survey response", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("survey response saved")

	return nil
}

func (s *StoryService) represent(ctx context.Context, story *models.Story, rctx translation.RequestContext) (map[string]interface{}, error) {
	schema := translation.SchemaFor(StoryFields)

	base := map[string]interface{}{
		"id":         story.ID,
		"story_type": story.StoryType,
		"start_date": story.StartDate,
		"end_date":   story.EndDate,
		"is_active":  story.IsActive,
		"product_id": story.ProductID,
		"created_at": story.CreatedAt,
	}

	rep, err := s.reader.Represent(ctx, schema, story.ID, base, rctx)
	if err != nil {
		return nil, err
	}

	if story.StoryType == models.StoryTypeSurvey {
		survey, options, err := s.repo.GetSurveyByStoryID(ctx, story.ID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			// история без сохраненного опроса отдается без блока survey
		case err != nil:
			return nil, err
		default:
			opts := make([]map[string]interface{}, 0, len(options))
			for _, o := range options {
				opts = append(opts, map[string]interface{}{
					"id":          o.ID,
					"option_text": o.OptionText,
					"order":       o.Order,
				})
			}
			rep["survey"] = map[string]interface{}{
				"id":       survey.ID,
				"question": survey.Question,
				"options":  opts,
			}
		}
	}

	return rep, nil
}
