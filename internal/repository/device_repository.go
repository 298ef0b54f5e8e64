package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/musinov501/havas-api-clone/internal/domain/models"
	"github.com/musinov501/havas-api-clone/internal/storage"
	"github.com/musinov501/havas-api-clone/internal/storage/postgresql"
	redisapp "github.com/musinov501/havas-api-clone/internal/storage/redis"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

var deviceColumns = []string{
	"id",
	"user_id",
	"device_token",
	"device_type",
	"language",
	"created_at",
}

type DeviceRepo struct {
	db postgresql.Querier
	sb sq.StatementBuilderType
}

func NewDeviceRepository(db postgresql.Querier) *DeviceRepo {
	return &DeviceRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *DeviceRepo) SaveDevice(ctx context.Context, device models.Device) (uuid.UUID, error) {
	const op = "repository.device_repository.SaveDevice"

	query, args, err := r.sb.Insert("devices").
		Columns(deviceColumns...).
		Values(
			device.ID,
			device.UserID,
			device.DeviceToken,
			device.DeviceType,
			device.Language,
			device.CreatedAt,
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

func (r *DeviceRepo) DeviceByToken(ctx context.Context, token string) (models.Device, error) {
	const op = "repository.device_repository.DeviceByToken"

	query, args, err := r.sb.Select(deviceColumns...).
		From("devices").
		Where(sq.Eq{"device_token": token}).
		ToSql()
	if err != nil {
		return models.Device{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var d models.Device
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&d.ID,
		&d.UserID,
		&d.DeviceToken,
		&d.DeviceType,
		&d.Language,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Device{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.Device{}, fmt.Errorf("%s: %w", op, err)
	}

	return d, nil
}

func (r *DeviceRepo) ListDevicesByUser(ctx context.Context, userID uuid.UUID) ([]models.Device, error) {
	const op = "repository.device_repository.ListDevicesByUser"

	query, args, err := r.sb.Select(deviceColumns...).
		From("devices").
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

	var devices []models.Device
	for rows.Next() {
		var d models.Device
		if err := rows.Scan(&d.ID, &d.UserID, &d.DeviceToken, &d.DeviceType, &d.Language, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		devices = append(devices, d)
	}

	return devices, rows.Err()
}

// CachedDeviceRepo декоратор с кешем токенов в redis: резолв токена идет
// на каждом запросе, ходить за ним в postgres каждый раз не нужно
type CachedDeviceRepo struct {
	inner DeviceRepository
	cache *redisapp.Client
	ttl   time.Duration
}

func NewCachedDeviceRepo(inner DeviceRepository, cache *redisapp.Client, ttl time.Duration) *CachedDeviceRepo {
	return &CachedDeviceRepo{inner: inner, cache: cache, ttl: ttl}
}

func (r *CachedDeviceRepo) SaveDevice(ctx context.Context, device models.Device) (uuid.UUID, error) {
	id, err := r.inner.SaveDevice(ctx, device)
	if err != nil {
		return uuid.Nil, err
	}

	_ = r.cache.Del(ctx, deviceTokenKey(device.DeviceToken.String())).Err()

	return id, nil
}

// DeviceByToken сперва смотрит в кеш; промах или недоступный redis
// деградируют до похода в postgres
func (r *CachedDeviceRepo) DeviceByToken(ctx context.Context, token string) (models.Device, error) {
	cached, err := r.cache.Get(ctx, deviceTokenKey(token)).Result()
	if err == nil {
		var d models.Device
		if err := json.Unmarshal([]byte(cached), &d); err == nil {
			return d, nil
		}
	}

	device, err := r.inner.DeviceByToken(ctx, token)
	if err != nil {
		return models.Device{}, err
	}

	if payload, err := json.Marshal(device); err == nil {
		_ = r.cache.Set(ctx, deviceTokenKey(token), payload, r.ttl).Err()
	}

	return device, nil
}

func (r *CachedDeviceRepo) ListDevicesByUser(ctx context.Context, userID uuid.UUID) ([]models.Device, error) {
	return r.inner.ListDevicesByUser(ctx, userID)
}

func deviceTokenKey(token string) string {
	return "device:" + token
}
