package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/musinov501/havas-api-clone/internal/domain/models"
	"github.com/musinov501/havas-api-clone/internal/storage"
	redisapp "github.com/musinov501/havas-api-clone/internal/storage/redis"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDeviceRepository struct {
	mock.Mock
}

func (m *MockDeviceRepository) SaveDevice(ctx context.Context, device models.Device) (uuid.UUID, error) {
	args := m.Called(ctx, device)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockDeviceRepository) DeviceByToken(ctx context.Context, token string) (models.Device, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.Device), args.Error(1)
}

func (m *MockDeviceRepository) ListDevicesByUser(ctx context.Context, userID uuid.UUID) ([]models.Device, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Device), args.Error(1)
}

func testDevice() models.Device {
	return models.Device{
		ID:          uuid.New(),
		DeviceToken: uuid.New(),
		DeviceType:  models.DeviceTypeMobile,
		Language:    models.LanguageUZ,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func TestCachedDeviceRepo_DeviceByToken_CacheMiss(t *testing.T) {
	ctx := context.Background()
	device := testDevice()
	token := device.DeviceToken.String()

	rdb, redisMock := redismock.NewClientMock()
	inner := new(MockDeviceRepository)
	repo := NewCachedDeviceRepo(inner, &redisapp.Client{Client: rdb}, time.Minute)

	payload, err := json.Marshal(device)
	require.NoError(t, err)

	redisMock.ExpectGet(deviceTokenKey(token)).RedisNil()
	inner.On("DeviceByToken", ctx, token).Return(device, nil).Once()
	redisMock.ExpectSet(deviceTokenKey(token), payload, time.Minute).SetVal("OK")

	got, err := repo.DeviceByToken(ctx, token)

	require.NoError(t, err)
	assert.Equal(t, device.ID, got.ID)
	inner.AssertExpectations(t)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCachedDeviceRepo_DeviceByToken_CacheHit(t *testing.T) {
	ctx := context.Background()
	device := testDevice()
	token := device.DeviceToken.String()

	rdb, redisMock := redismock.NewClientMock()
	inner := new(MockDeviceRepository)
	repo := NewCachedDeviceRepo(inner, &redisapp.Client{Client: rdb}, time.Minute)

	payload, err := json.Marshal(device)
	require.NoError(t, err)

	redisMock.ExpectGet(deviceTokenKey(token)).SetVal(string(payload))

	got, err := repo.DeviceByToken(ctx, token)

	require.NoError(t, err)
	assert.Equal(t, device.ID, got.ID)
	assert.Equal(t, device.Language, got.Language)
	// до postgres дело не дошло
	inner.AssertNotCalled(t, "DeviceByToken", mock.Anything, mock.Anything)
}

func TestCachedDeviceRepo_DeviceByToken_NotFound(t *testing.T) {
	ctx := context.Background()
	token := uuid.New().String()

	rdb, redisMock := redismock.NewClientMock()
	inner := new(MockDeviceRepository)
	repo := NewCachedDeviceRepo(inner, &redisapp.Client{Client: rdb}, time.Minute)

	redisMock.ExpectGet(deviceTokenKey(token)).RedisNil()
	inner.On("DeviceByToken", ctx, token).Return(models.Device{}, storage.ErrNotFound).Once()

	_, err := repo.DeviceByToken(ctx, token)

	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCachedDeviceRepo_SaveDevice_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	device := testDevice()

	rdb, redisMock := redismock.NewClientMock()
	inner := new(MockDeviceRepository)
	repo := NewCachedDeviceRepo(inner, &redisapp.Client{Client: rdb}, time.Minute)

	inner.On("SaveDevice", ctx, device).Return(device.ID, nil).Once()
	redisMock.ExpectDel(deviceTokenKey(device.DeviceToken.String())).SetVal(1)

	id, err := repo.SaveDevice(ctx, device)

	require.NoError(t, err)
	assert.Equal(t, device.ID, id)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
