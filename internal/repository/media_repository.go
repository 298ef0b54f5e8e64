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

var mediaColumns = []string{
	"id",
	"owner_type",
	"owner_id",
	"media_type",
	"language",
	"storage_path",
	"original_filename",
	"file_size",
	"uploaded_by",
	"is_public",
	"created_at",
}

type MediaRepo struct {
	db postgresql.Querier
	sb sq.StatementBuilderType
}

func NewMediaRepository(db postgresql.Querier) *MediaRepo {
	return &MediaRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *MediaRepo) WithTx(tx pgx.Tx) MediaRepository {
	return &MediaRepo{db: tx, sb: r.sb}
}

func (r *MediaRepo) CreateMedia(ctx context.Context, media *models.Media) (*models.Media, error) {
	const op = "repository.media_repository.CreateMedia"

	query, args, err := r.sb.Insert("media").
		Columns(mediaColumns...).
		Values(
			media.ID,
			media.OwnerType,
			media.OwnerID,
			media.MediaType,
			media.Language,
			media.StoragePath,
			media.OriginalFilename,
			media.FileSize,
			media.UploadedBy,
			media.IsPublic,
			media.CreatedAt,
		).
		Suffix("RETURNING " + columnList(mediaColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	row := r.db.QueryRow(ctx, query, args...)

	created, err := scanMedia(row)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create media: %w", op, err)
	}

	return created, nil
}

func (r *MediaRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	const op = "repository.media_repository.FindByID"

	query, args, err := r.sb.Select(mediaColumns...).
		From("media").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	media, err := scanMedia(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return media, nil
}

func (r *MediaRepo) ListMediaByOwner(ctx context.Context, owner models.OwnerType, ownerID uuid.UUID) ([]models.Media, error) {
	const op = "repository.media_repository.ListMediaByOwner"

	query, args, err := r.sb.Select(mediaColumns...).
		From("media").
		Where(sq.Eq{"owner_type": owner, "owner_id": ownerID}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	return r.queryMedia(ctx, op, query, args)
}

// ListMedia выборка по (владелец, вид, язык); language == nil дает общие файлы
func (r *MediaRepo) ListMedia(ctx context.Context, owner models.OwnerType, ownerID uuid.UUID, kind models.MediaType, language *models.Language) ([]models.Media, error) {
	const op = "repository.media_repository.ListMedia"

	builder := r.sb.Select(mediaColumns...).
		From("media").
		Where(sq.Eq{"owner_type": owner, "owner_id": ownerID, "media_type": kind}).
		OrderBy("created_at")

	if language == nil {
		builder = builder.Where(sq.Eq{"language": nil})
	} else {
		builder = builder.Where(sq.Eq{"language": *language})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	return r.queryMedia(ctx, op, query, args)
}

// DeleteMediaByOwner удаляет все строки владельца и возвращает пути файлов
// для очистки файлового хранилища
func (r *MediaRepo) DeleteMediaByOwner(ctx context.Context, owner models.OwnerType, ownerID uuid.UUID) ([]string, error) {
	const op = "repository.media_repository.DeleteMediaByOwner"

	query, args, err := r.sb.Delete("media").
		Where(sq.Eq{"owner_type": owner, "owner_id": ownerID}).
		Suffix("RETURNING storage_path").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		paths = append(paths, path)
	}

	return paths, rows.Err()
}

func (r *MediaRepo) queryMedia(ctx context.Context, op, query string, args []interface{}) ([]models.Media, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var media []models.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		media = append(media, *m)
	}

	return media, rows.Err()
}

func scanMedia(row pgx.Row) (*models.Media, error) {
	var m models.Media
	err := row.Scan(
		&m.ID,
		&m.OwnerType,
		&m.OwnerID,
		&m.MediaType,
		&m.Language,
		&m.StoragePath,
		&m.OriginalFilename,
		&m.FileSize,
		&m.UploadedBy,
		&m.IsPublic,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
