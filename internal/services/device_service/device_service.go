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

// DeviceService регистрация устройств и пользователей. Токен устройства
// выдается один раз и дальше предъявляется в заголовке Token.
type DeviceService struct {
	log     *slog.Logger
	devices repository.DeviceRepository
	users   repository.UserRepository
}

func NewDeviceService(log *slog.Logger, devices repository.DeviceRepository, users repository.UserRepository) *DeviceService {
	return &DeviceService{
		log:     log,
		devices: devices,
		users:   users,
	}
}

// RegisterDevice создает устройство и возвращает его токен
func (s *DeviceService) RegisterDevice(ctx context.Context, input dto.DeviceRegisterInput) (*models.Device, error) {
	const op = "device_service.RegisterDevice"

	log := s.log.With(slog.String("op", op))

	lang, ok := models.ParseLanguage(input.Language)
	if !ok {
		lang = models.LanguageUZ
	}

	device := models.Device{
		ID:          uuid.New(),
		UserID:      input.UserID,
		DeviceToken: uuid.New(),
		DeviceType:  models.DeviceType(input.DeviceType),
		Language:    lang,
		CreatedAt:   time.Now().UTC(),
	}

	if err := device.Validate(); err != nil {
		log.Warn("device validation failed", sl.Err(err))
		return nil, &translation.ValidationError{Reason: err.Error()}
	}

	if _, err := s.devices.SaveDevice(ctx, device); err != nil {
		log.Error("failed to save device", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("device registered",
		slog.String("device_id", device.ID.String()),
		slog.String("device_type", string(device.DeviceType)),
	)

	return &device, nil
}

// DeviceByToken используется middleware для восстановления контекста запроса
func (s *DeviceService) DeviceByToken(ctx context.Context, token string) (models.Device, error) {
	const op = "device_service.DeviceByToken"

	device, err := s.devices.DeviceByToken(ctx, token)
	if err != nil {
		return models.Device{}, fmt.Errorf("%s: %w", op, err)
	}

	return device, nil
}

func (s *DeviceService) RegisterUser(ctx context.Context, input dto.UserRegisterInput) (uuid.UUID, error) {
	const op = "device_service.RegisterUser"

	log := s.log.With(slog.String("op", op))

	user := models.User{
		ID:          uuid.New(),
		PhoneNumber: input.PhoneNumber,
		Email:       input.Email,
		Username:    input.Username,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed", sl.Err(err))
		return uuid.Nil, &translation.ValidationError{Reason: err.Error()}
	}

	id, err := s.users.SaveUser(ctx, user)
	if err != nil {
		log.Error("failed to save user", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("user_id", id.String()))

	return id, nil
}

func (s *DeviceService) GetUser(ctx context.Context, userID uuid.UUID) (models.User, error) {
	const op = "device_service.GetUser"

	user, err := s.users.GetUserById(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}
