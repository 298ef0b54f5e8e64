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

var userColumns = []string{
	"id",
	"phone_number",
	"email",
	"username",
	"first_name",
	"last_name",
	"is_active",
	"is_deleted",
	"created_at",
}

type UserRepo struct {
	db postgresql.Querier
	sb sq.StatementBuilderType
}

func NewUserRepository(db postgresql.Querier) *UserRepo {
	return &UserRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *UserRepo) SaveUser(ctx context.Context, user models.User) (uuid.UUID, error) {
	const op = "repository.user_repository.SaveUser"

	query, args, err := r.sb.Insert("users").
		Columns(userColumns...).
		Values(
			user.ID,
			user.PhoneNumber,
			user.Email,
			user.Username,
			user.FirstName,
			user.LastName,
			user.IsActive,
			user.IsDeleted,
			user.CreatedAt,
		).
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

func (r *UserRepo) GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error) {
	const op = "repository.user_repository.GetUserById"

	query, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": userID, "is_deleted": false}).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var u models.User
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.PhoneNumber,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.IsActive,
		&u.IsDeleted,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}
