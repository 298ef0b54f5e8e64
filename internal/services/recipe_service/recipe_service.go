package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/musinov501/havas-api-clone/internal/domain/models"
	"github.com/musinov501/havas-api-clone/internal/lib/logger/sl"
	"github.com/musinov501/havas-api-clone/internal/metrics"
	"github.com/musinov501/havas-api-clone/internal/repository"
	storage "github.com/musinov501/havas-api-clone/internal/storage/filestorage"
	"github.com/musinov501/havas-api-clone/internal/translation"
	"github.com/musinov501/havas-api-clone/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// RecipeFields тексты рецепта на одном языке автора, картинка общая
var RecipeFields = translation.FieldSet{
	Owner: models.OwnerTypeRecipe,
	Media: []string{"image"},
}

type RecipeService struct {
	log          *slog.Logger
	db           Transactor
	repo         repository.RecipeRepository
	products     repository.ProductRepository
	translations repository.TranslationRepository
	media        repository.MediaRepository
	fileStorage  storage.FileStorage
	writer       *translation.Writer
	reader       *translation.Reader
}

func NewRecipeService(
	log *slog.Logger,
	db Transactor,
	repo repository.RecipeRepository,
	products repository.ProductRepository,
	translations repository.TranslationRepository,
	media repository.MediaRepository,
	fileStorage storage.FileStorage,
) *RecipeService {
	return &RecipeService{
		log:          log,
		db:           db,
		repo:         repo,
		products:     products,
		translations: translations,
		media:        media,
		fileStorage:  fileStorage,
		writer:       translation.NewWriter(log, fileStorage),
		reader:       translation.NewReader(log, translations, media, fileStorage),
	}
}

// CreateRecipe рецепт с ингредиентами и общей картинкой одной транзакцией
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, input dto.RecipeCreateInput) (uuid.UUID, error) {
	const op = "recipe_service.CreateRecipe"

	log := s.log.With(slog.String("op", op))

	schema := translation.SchemaFor(RecipeFields)

	recipe := models.Recipe{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		CookTime:    input.CookTime,
		CreatedAt:   time.Now().UTC(),
	}

	if err := recipe.Validate(); err != nil {
		log.Warn("recipe validation failed", sl.Err(err))
		return uuid.Nil, &translation.ValidationError{Reason: err.Error()}
	}
	if err := s.writer.Validate(schema, input.Payload); err != nil {
		log.Warn("payload validation failed", sl.Err(err))
		return uuid.Nil, err
	}

	for _, ing := range input.Ingredients {
		if _, err := s.products.GetProductByID(ctx, ing.ProductID); err != nil {
			log.Warn("ingredient product lookup failed", sl.Err(err))
			return uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	var savedFiles []string

	err := s.db.WithinTx(ctx, func(tx pgx.Tx) error {
		txRepo := s.repo.WithTx(tx)

		if _, err := txRepo.SaveRecipe(ctx, recipe); err != nil {
			return err
		}

		for _, ing := range input.Ingredients {
			_, err := txRepo.AddIngredient(ctx, models.RecipeIngredient{
				ID:        uuid.New(),
				RecipeID:  recipe.ID,
				ProductID: ing.ProductID,
				Quantity:  ing.Quantity,
				Unit:      ing.Unit,
			})
			if err != nil {
				return err
			}
		}

		saved, err := s.writer.Apply(ctx, s.translations.WithTx(tx), s.media.WithTx(tx), schema, recipe.ID, input.Payload)
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
		log.Error("failed to create recipe", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.MediaUploadsTotal.WithLabelValues(string(models.OwnerTypeRecipe)).Add(float64(len(savedFiles)))

	log.Info("recipe created", slog.String("recipe_id", recipe.ID.String()))

	return recipe.ID, nil
}

// UpdateRecipe частичное обновление: отсутствующие поля не трогаем,
// файлы из Payload дописываются к уже сохраненным
func (s *RecipeService) UpdateRecipe(ctx context.Context, recipeID, userID uuid.UUID, input dto.RecipeUpdateInput) error {
	const op = "recipe_service.UpdateRecipe"

	log := s.log.With(
		slog.String("op", op),
		slog.String("recipe_id", recipeID.String()),
	)

	recipe, err := s.repo.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if recipe.UserID != userID {
		return &translation.ValidationError{Reason: "recipe belongs to another user"}
	}

	schema := translation.SchemaFor(RecipeFields)

	if err := s.writer.Validate(schema, input.Payload); err != nil {
		log.Warn("payload validation failed", sl.Err(err))
		return err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.CookTime != nil {
		updates["cook_time"] = *input.CookTime
	}

	var savedFiles []string

	err = s.db.WithinTx(ctx, func(tx pgx.Tx) error {
		if len(updates) > 0 {
			if err := s.repo.WithTx(tx).UpdateRecipeFields(ctx, recipeID, updates); err != nil {
				return err
			}
		}

		saved, err := s.writer.Apply(ctx, s.translations.WithTx(tx), s.media.WithTx(tx), schema, recipeID, input.Payload)
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
		log.Error("failed to update recipe", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("recipe updated")

	return nil
}

func (s *RecipeService) GetRecipe(ctx context.Context, recipeID uuid.UUID, rctx translation.RequestContext) (map[string]interface{}, error) {
	const op = "recipe_service.GetRecipe"

	recipe, err := s.repo.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rep, err := s.represent(ctx, recipe, rctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ingredients, err := s.repo.ListIngredients(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rendered := make([]map[string]interface{}, 0, len(ingredients))
	for _, ing := range ingredients {
		rendered = append(rendered, map[string]interface{}{
			"id":         ing.ID,
			"product_id": ing.ProductID,
			"quantity":   ing.Quantity,
			"unit":       ing.Unit,
		})
	}
	rep["ingredients"] = rendered

	return rep, nil
}

func (s *RecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, rctx translation.RequestContext) ([]map[string]interface{}, error) {
	const op = "recipe_service.ListRecipes"

	recipes, err := s.repo.ListRecipesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]map[string]interface{}, 0, len(recipes))
	for i := range recipes {
		rep, err := s.represent(ctx, &recipes[i], rctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, rep)
	}

	return out, nil
}

func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID, userID uuid.UUID) error {
	const op = "recipe_service.DeleteRecipe"

	log := s.log.With(
		slog.String("op", op),
		slog.String("recipe_id", recipeID.String()),
	)

	recipe, err := s.repo.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	// чужой рецепт удалить нельзя
	if recipe.UserID != userID {
		return &translation.ValidationError{Reason: "recipe belongs to another user"}
	}

	var orphanedFiles []string

	err = s.db.WithinTx(ctx, func(tx pgx.Tx) error {
		paths, err := s.media.WithTx(tx).DeleteMediaByOwner(ctx, models.OwnerTypeRecipe, recipeID)
		if err != nil {
			return err
		}
		orphanedFiles = paths

		if err := s.translations.WithTx(tx).DeleteTranslationsByOwner(ctx, models.OwnerTypeRecipe, recipeID); err != nil {
			return err
		}

		return s.repo.WithTx(tx).DeleteRecipe(ctx, recipeID)
	})
	if err != nil {
		log.Error("failed to delete recipe", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, path := range orphanedFiles {
		if err := s.fileStorage.Delete(ctx, path); err != nil {
			log.Warn("failed to remove stored file", slog.String("path", path), sl.Err(err))
		}
	}

	log.Info("recipe deleted")

	return nil
}

func (s *RecipeService) represent(ctx context.Context, recipe *models.Recipe, rctx translation.RequestContext) (map[string]interface{}, error) {
	schema := translation.SchemaFor(RecipeFields)

	base := map[string]interface{}{
		"id":          recipe.ID,
		"user_id":     recipe.UserID,
		"title":       recipe.Title,
		"description": recipe.Description,
		"cook_time":   recipe.CookTime,
		"created_at":  recipe.CreatedAt,
	}

	return s.reader.Represent(ctx, schema, recipe.ID, base, rctx)
}
