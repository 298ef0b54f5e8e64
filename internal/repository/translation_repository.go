package repository

import (
	"context"
	"fmt"

	"github.com/musinov501/havas-api-clone/internal/domain/models"
	"github.com/musinov501/havas-api-clone/internal/storage/postgresql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

type TranslationRepo struct {
	db postgresql.Querier
	sb sq.StatementBuilderType
}

func NewTranslationRepository(db postgresql.Querier) *TranslationRepo {
	return &TranslationRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *TranslationRepo) WithTx(tx pgx.Tx) TranslationRepository {
	return &TranslationRepo{db: tx, sb: r.sb}
}

// UpsertTranslation вставляет или обновляет строку перевода по ключу
// (owner_type, owner_id, field, language). Последняя запись побеждает.
func (r *TranslationRepo) UpsertTranslation(ctx context.Context, t models.Translation) error {
	const op = "repository.translation_repository.UpsertTranslation"

	query, args, err := r.sb.Insert("content_translations").
		Columns("owner_type", "owner_id", "field", "language", "value", "updated_at").
		Values(t.OwnerType, t.OwnerID, t.Field, t.Language, t.Value, t.UpdatedAt).
		Suffix("ON CONFLICT (owner_type, owner_id, field, language) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *TranslationRepo) ListTranslations(ctx context.Context, owner models.OwnerType, ownerID uuid.UUID) ([]models.Translation, error) {
	const op = "repository.translation_repository.ListTranslations"

	query, args, err := r.sb.Select("owner_type", "owner_id", "field", "language", "value", "updated_at").
		From("content_translations").
		Where(sq.Eq{"owner_type": owner, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var translations []models.Translation
	for rows.Next() {
		var t models.Translation
		if err := rows.Scan(&t.OwnerType, &t.OwnerID, &t.Field, &t.Language, &t.Value, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		translations = append(translations, t)
	}

	return translations, rows.Err()
}

func (r *TranslationRepo) DeleteTranslationsByOwner(ctx context.Context, owner models.OwnerType, ownerID uuid.UUID) error {
	const op = "repository.translation_repository.DeleteTranslationsByOwner"

	query, args, err := r.sb.Delete("content_translations").
		Where(sq.Eq{"owner_type": owner, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
