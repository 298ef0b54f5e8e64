package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/musinov501/havas-api-clone/internal/domain/models"
	"github.com/musinov501/havas-api-clone/internal/storage"
	"github.com/musinov501/havas-api-clone/internal/storage/postgresql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

var recipeColumns = []string{
	"id",
	"user_id",
	"title",
	"description",
	"cook_time",
	"created_at",
}

type RecipeRepo struct {
	db postgresql.Querier
	sb sq.StatementBuilderType
}

func NewRecipeRepository(db postgresql.Querier) *RecipeRepo {
	return &RecipeRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *RecipeRepo) WithTx(tx pgx.Tx) RecipeRepository {
	return &RecipeRepo{db: tx, sb: r.sb}
}

func (r *RecipeRepo) SaveRecipe(ctx context.Context, recipe models.Recipe) (uuid.UUID, error) {
	const op = "repository.recipe_repository.SaveRecipe"

	query, args, err := r.sb.Insert("recipes").
		Columns(recipeColumns...).
		Values(
			recipe.ID,
			recipe.UserID,
			recipe.Title,
			recipe.Description,
			recipe.CookTime,
			recipe.CreatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *RecipeRepo) UpdateRecipeFields(ctx context.Context, recipeID uuid.UUID, updates map[string]interface{}) error {
	const op = "repository.recipe_repository.UpdateRecipeFields"

	if len(updates) == 0 {
		return nil
	}

	builder := r.sb.Update("recipes").Where(sq.Eq{"id": recipeID})
	for column, value := range updates {
		builder = builder.Set(column, value)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func (r *RecipeRepo) GetRecipeByID(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error) {
	const op = "repository.recipe_repository.GetRecipeByID"

	query, args, err := r.sb.Select(recipeColumns...).
		From("recipes").
		Where(sq.Eq{"id": recipeID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var recipe models.Recipe
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&recipe.ID,
		&recipe.UserID,
		&recipe.Title,
		&recipe.Description,
		&recipe.CookTime,
		&recipe.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &recipe, nil
}

func (r *RecipeRepo) ListRecipesByUser(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	const op = "repository.recipe_repository.ListRecipesByUser"

	query, args, err := r.sb.Select(recipeColumns...).
		From("recipes").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var recipes []models.Recipe
	for rows.Next() {
		var recipe models.Recipe
		err := rows.Scan(
			&recipe.ID,
			&recipe.UserID,
			&recipe.Title,
			&recipe.Description,
			&recipe.CookTime,
			&recipe.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		recipes = append(recipes, recipe)
	}

	return recipes, rows.Err()
}

func (r *RecipeRepo) DeleteRecipe(ctx context.Context, recipeID uuid.UUID) error {
	const op = "repository.recipe_repository.DeleteRecipe"

	query, args, err := r.sb.Delete("recipes").
		Where(sq.Eq{"id": recipeID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func (r *RecipeRepo) AddIngredient(ctx context.Context, ingredient models.RecipeIngredient) (uuid.UUID, error) {
	const op = "repository.recipe_repository.AddIngredient"

	query, args, err := r.sb.Insert("recipe_ingredients").
		Columns("id", "recipe_id", "product_id", "quantity", "unit").
		Values(
			ingredient.ID,
			ingredient.RecipeID,
			ingredient.ProductID,
			ingredient.Quantity,
			ingredient.Unit,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *RecipeRepo) ListIngredients(ctx context.Context, recipeID uuid.UUID) ([]models.RecipeIngredient, error) {
	const op = "repository.recipe_repository.ListIngredients"

	query, args, err := r.sb.Select("id", "recipe_id", "product_id", "quantity", "unit").
		From("recipe_ingredients").
		Where(sq.Eq{"recipe_id": recipeID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ingredients []models.RecipeIngredient
	for rows.Next() {
		var i models.RecipeIngredient
		if err := rows.Scan(&i.ID, &i.RecipeID, &i.ProductID, &i.Quantity, &i.Unit); err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		ingredients = append(ingredients, i)
	}

	return ingredients, rows.Err()
}
