package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/musinov501/havas-api-clone/internal/domain/models"
	"github.com/musinov501/havas-api-clone/internal/lib/logger/sl"
	"github.com/musinov501/havas-api-clone/internal/repository"
	"github.com/musinov501/havas-api-clone/internal/translation"
	"github.com/musinov501/havas-api-clone/internal/transport/http/dto"

	"github.com/google/uuid"
)

// NotificationService уведомления: адресные и широковещательные.
// Чтение всегда фильтруется по языку устройства.
type NotificationService struct {
	log  *slog.Logger
	repo repository.NotificationRepository
}

func NewNotificationService(log *slog.Logger, repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		log:  log,
		repo: repo,
	}
}

// Send создает уведомление; RecipientID == nil означает рассылку всем
func (s *NotificationService) Send(ctx context.Context, input dto.NotificationInput) (uuid.UUID, error) {
	const op = "notification_service.Send"

	log := s.log.With(slog.String("op", op))

	lang := models.Language(input.Language)
	if !lang.IsValid() {
		return uuid.Nil, &translation.ValidationError{Key: "language", Reason: fmt.Sprintf("unsupported language %q", input.Language)}
	}

	ntype := models.NotificationType(input.Type)
	switch ntype {
	case models.NotificationProduct, models.NotificationSystem, models.NotificationUser:
	default:
		return uuid.Nil, &translation.ValidationError{Key: "type", Reason: fmt.Sprintf("invalid notification type %q", input.Type)}
	}

	id, err := s.repo.SaveNotification(ctx, models.Notification{
		ID:          uuid.New(),
		Title:       input.Title,
		Message:     input.Message,
		Type:        ntype,
		ProductID:   input.ProductID,
		RecipientID: input.RecipientID,
		Language:    lang,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		log.Error("failed to save notification", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("notification saved", slog.String("notification_id", id.String()))

	return id, nil
}

// ListForUser адресные уведомления пользователя плюс широковещательные,
// только на языке из контекста запроса
func (s *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID, rctx translation.RequestContext) ([]models.Notification, error) {
	const op = "notification_service.ListForUser"

	lang, ok := rctx.ResolvedLanguage()
	if !ok {
		lang = models.LanguageUZ
	}

	notifications, err := s.repo.ListNotificationsForUser(ctx, userID, lang)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	const op = "notification_service.MarkRead"

	if err := s.repo.MarkRead(ctx, notificationID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
