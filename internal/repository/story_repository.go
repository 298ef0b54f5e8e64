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

var storyColumns = []string{
	"id",
	"story_type",
	"start_date",
	"end_date",
	"is_active",
	"product_id",
	"created_at",
	"updated_at",
}

type StoryRepo struct {
	db postgresql.Querier
	sb sq.StatementBuilderType
}

func NewStoryRepository(db postgresql.Querier) *StoryRepo {
	return &StoryRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *StoryRepo) WithTx(tx pgx.Tx) StoryRepository {
	return &StoryRepo{db: tx, sb: r.sb}
}

func (r *StoryRepo) SaveStory(ctx context.Context, story models.Story) (uuid.UUID, error) {
	const op = "repository.story_repository.SaveStory"

	query, args, err := r.sb.Insert("stories").
		Columns(storyColumns...).
		Values(
			story.ID,
			story.StoryType,
			story.StartDate,
			story.EndDate,
			story.IsActive,
			story.ProductID,
			story.CreatedAt,
			story.UpdatedAt,
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

func (r *StoryRepo) UpdateStoryFields(ctx context.Context, storyID uuid.UUID, updates map[string]interface{}) error {
	const op = "repository.story_repository.UpdateStoryFields"

	if len(updates) == 0 {
		return nil
	}

	builder := r.sb.Update("stories").Where(sq.Eq{"id": storyID})
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

func (r *StoryRepo) GetStoryByID(ctx context.Context, storyID uuid.UUID) (*models.Story, error) {
	const op = "repository.story_repository.GetStoryByID"

	query, args, err := r.sb.Select(storyColumns...).
		From("stories").
		Where(sq.Eq{"id": storyID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	s, err := scanStory(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (r *StoryRepo) ListStories(ctx context.Context, activeOnly bool, page, perPage int) ([]models.Story, int, error) {
	const op = "repository.story_repository.ListStories"

	where := sq.Eq{}
	if activeOnly {
		where["is_active"] = true
	}

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("stories").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Select(storyColumns...).
		From("stories").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var stories []models.Story
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		stories = append(stories, *s)
	}

	return stories, total, rows.Err()
}

func (r *StoryRepo) DeleteStory(ctx context.Context, storyID uuid.UUID) error {
	const op = "repository.story_repository.DeleteStory"

	query, args, err := r.sb.Delete("stories").
		Where(sq.Eq{"id": storyID}).
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

func (r *StoryRepo) SaveSurvey(ctx context.Context, survey models.Survey) (uuid.UUID, error) {
	const op = "repository.story_repository.SaveSurvey"

	query, args, err := r.sb.Insert("surveys").
		Columns("id", "story_id", "question", "created_at").
		Values(survey.ID, survey.StoryID, survey.Question, survey.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *StoryRepo) SaveSurveyOption(ctx context.Context, option models.SurveyOption) (uuid.UUID, error) {
	const op = "repository.story_repository.SaveSurveyOption"

	query, args, err := r.sb.Insert("survey_options").
		Columns("id", "survey_id", "option_text", "sort_order").
		Values(option.ID, option.SurveyID, option.OptionText, option.Order).
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

func (r *StoryRepo) GetSurveyByStoryID(ctx context.Context, storyID uuid.UUID) (*models.Survey, []models.SurveyOption, error) {
	const op = "repository.story_repository.GetSurveyByStoryID"

	query, args, err := r.sb.Select("id", "story_id", "question", "created_at").
		From("surveys").
		Where(sq.Eq{"story_id": storyID}).
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var survey models.Survey
	err = r.db.QueryRow(ctx, query, args...).Scan(&survey.ID, &survey.StoryID, &survey.Question, &survey.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	optQuery, optArgs, err := r.sb.Select("id", "survey_id", "option_text", "sort_order").
		From("survey_options").
		Where(sq.Eq{"survey_id": survey.ID}).
		OrderBy("sort_order").
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, optQuery, optArgs...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var options []models.SurveyOption
	for rows.Next() {
		var o models.SurveyOption
		if err := rows.Scan(&o.ID, &o.SurveyID, &o.OptionText, &o.Order); err != nil {
			return nil, nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		options = append(options, o)
	}

	return &survey, options, rows.Err()
}

// SaveSurveyResponse один голос на (survey, user), повтор дает ErrAlreadyExists
func (r *StoryRepo) SaveSurveyResponse(ctx context.Context, response models.SurveyResponse) error {
	const op = "repository.story_repository.SaveSurveyResponse"

	query, args, err := r.sb.Insert("survey_responses").
		Columns("id", "survey_id", "user_id", "option_id", "device_id", "created_at").
		Values(
			response.ID,
			response.SurveyID,
			response.UserID,
			response.OptionID,
			response.DeviceID,
			response.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func scanStory(row pgx.Row) (*models.Story, error) {
	var s models.Story
	err := row.Scan(
		&s.ID,
		&s.StoryType,
		&s.StartDate,
		&s.EndDate,
		&s.IsActive,
		&s.ProductID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
