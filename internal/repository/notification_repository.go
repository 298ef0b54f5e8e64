package repository

import (
	"context"
	"fmt"

	"github.com/musinov501/havas-api-clone/internal/domain/models"
	"github.com/musinov501/havas-api-clone/internal/storage"
	"github.com/musinov501/havas-api-clone/internal/storage/postgresql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var notificationColumns = []string{
	"id",
	"title",
	"message",
	"type",
	"product_id",
	"recipient_id",
	"is_read",
	"language",
	"created_at",
}

type NotificationRepo struct {
	db postgresql.Querier
	sb sq.StatementBuilderType
}

func NewNotificationRepository(db postgresql.Querier) *NotificationRepo {
	return &NotificationRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *NotificationRepo) SaveNotification(ctx context.Context, notification models.Notification) (uuid.UUID, error) {
	const op = "repository.notification_repository.SaveNotification"

	query, args, err := r.sb.Insert("notifications").
		Columns(notificationColumns...).
		Values(
			notification.ID,
			notification.Title,
			notification.Message,
			notification.Type,
			notification.ProductID,
			notification.RecipientID,
			notification.IsRead,
			notification.Language,
			notification.CreatedAt,
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

// ListNotificationsForUser личные уведомления пользователя на его языке
// плюс рассылки без адресата
func (r *NotificationRepo) ListNotificationsForUser(ctx context.Context, userID uuid.UUID, language models.Language) ([]models.Notification, error) {
	const op = "repository.notification_repository.ListNotificationsForUser"

	query, args, err := r.sb.Select(notificationColumns...).
		From("notifications").
		Where(sq.And{
			sq.Or{
				sq.Eq{"recipient_id": userID},
				sq.Eq{"recipient_id": nil},
			},
			sq.Eq{"language": language},
		}).
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

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(
			&n.ID,
			&n.Title,
			&n.Message,
			&n.Type,
			&n.ProductID,
			&n.RecipientID,
			&n.IsRead,
			&n.Language,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	const op = "repository.notification_repository.MarkRead"

	query, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Where(sq.Eq{"id": notificationID}).
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
