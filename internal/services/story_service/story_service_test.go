package services

import (
	"context"
	"log/slog"
	"mime/multipart"
	"testing"
	"time"

	"github.com/musinov501/havas-api-clone/internal/domain/models"
	"github.com/musinov501/havas-api-clone/internal/repository"
	"github.com/musinov501/havas-api-clone/internal/storage"
	"github.com/musinov501/havas-api-clone/internal/translation"
	"github.com/musinov501/havas-api-clone/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

type MockStoryRepository struct {
	mock.Mock
}

func (m *MockStoryRepository) SaveStory(ctx context.Context, story models.Story) (uuid.UUID, error) {
	args := m.Called(ctx, story)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockStoryRepository) UpdateStoryFields(ctx context.Context, storyID uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, storyID, updates)
	return args.Error(0)
}

func (m *MockStoryRepository) GetStoryByID(ctx context.Context, storyID uuid.UUID) (*models.Story, error) {
	args := m.Called(ctx, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Story), args.Error(1)
}

func (m *MockStoryRepository) ListStories(ctx context.Context, activeOnly bool, page, perPage int) ([]models.Story, int, error) {
	args := m.Called(ctx, activeOnly, page, perPage)
	return args.Get(0).([]models.Story), args.Int(1), args.Error(2)
}

func (m *MockStoryRepository) DeleteStory(ctx context.Context, storyID uuid.UUID) error {
	args := m.Called(ctx, storyID)
	return args.Error(0)
}

func (m *MockStoryRepository) SaveSurvey(ctx context.Context, survey models.Survey) (uuid.UUID, error) {
	args := m.Called(ctx, survey)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockStoryRepository) SaveSurveyOption(ctx context.Context, option models.SurveyOption) (uuid.UUID, error) {
	args := m.Called(ctx, option)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockStoryRepository) GetSurveyByStoryID(ctx context.Context, storyID uuid.UUID) (*models.Survey, []models.SurveyOption, error) {
	args := m.Called(ctx, storyID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Survey), args.Get(1).([]models.SurveyOption), args.Error(2)
}

func (m *MockStoryRepository) SaveSurveyResponse(ctx context.Context, response models.SurveyResponse) error {
	args := m.Called(ctx, response)
	return args.Error(0)
}

func (m *MockStoryRepository) WithTx(tx pgx.Tx) repository.StoryRepository {
	return m
}

type MockTranslationRepository struct {
	mock.Mock
}

func (m *MockTranslationRepository) UpsertTranslation(ctx context.Context, t models.Translation) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTranslationRepository) ListTranslations(ctx context.Context, owner models.OwnerType, ownerID uuid.UUID) ([]models.Translation, error) {
	args := m.Called(ctx, owner, ownerID)
	return args.Get(0).([]models.Translation), args.Error(1)
}

func (m *MockTranslationRepository) DeleteTranslationsByOwner(ctx context.Context, owner models.OwnerType, ownerID uuid.UUID) error {
	args := m.Called(ctx, owner, ownerID)
	return args.Error(0)
}

func (m *MockTranslationRepository) WithTx(tx pgx.Tx) repository.TranslationRepository {
	return m
}

type MockMediaRepository struct {
	mock.Mock
}

func (m *MockMediaRepository) CreateMedia(ctx context.Context, media *models.Media) (*models.Media, error) {
	args := m.Called(ctx, media)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Media), args.Error(1)
}

func (m *MockMediaRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Media), args.Error(1)
}

func (m *MockMediaRepository) ListMediaByOwner(ctx context.Context, owner models.OwnerType, ownerID uuid.UUID) ([]models.Media, error) {
	args := m.Called(ctx, owner, ownerID)
	return args.Get(0).([]models.Media), args.Error(1)
}

func (m *MockMediaRepository) ListMedia(ctx context.Context, owner models.OwnerType, ownerID uuid.UUID, kind models.MediaType, language *models.Language) ([]models.Media, error) {
	args := m.Called(ctx, owner, ownerID, kind, language)
	return args.Get(0).([]models.Media), args.Error(1)
}

func (m *MockMediaRepository) DeleteMediaByOwner(ctx context.Context, owner models.OwnerType, ownerID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, owner, ownerID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMediaRepository) WithTx(tx pgx.Tx) repository.MediaRepository {
	return m
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Save(ctx context.Context, file *multipart.FileHeader, subPath string) (string, int64, error) {
	args := m.Called(ctx, file, subPath)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockFileStorage) Delete(ctx context.Context, filePath string) error {
	args := m.Called(ctx, filePath)
	return args.Error(0)
}

func (m *MockFileStorage) GetFullPath(relativePath string) string {
	args := m.Called(relativePath)
	return args.String(0)
}

func (m *MockFileStorage) BaseURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockFileStorage) GetBaseDir() string {
	args := m.Called()
	return args.String(0)
}

type storyServiceMocks struct {
	db           *MockTransactor
	repo         *MockStoryRepository
	translations *MockTranslationRepository
	media        *MockMediaRepository
	files        *MockFileStorage
}

func newStoryService(t *testing.T) (*StoryService, *storyServiceMocks) {
	t.Helper()

	m := &storyServiceMocks{
		db:           new(MockTransactor),
		repo:         new(MockStoryRepository),
		translations: new(MockTranslationRepository),
		media:        new(MockMediaRepository),
		files:        new(MockFileStorage),
	}

	service := NewStoryService(slog.Default(), m.db, m.repo, m.translations, m.media, m.files)

	return service, m
}

func TestStoryService_CreateStory_WithSurvey(t *testing.T) {
	ctx := context.Background()
	service, m := newStoryService(t)

	now := time.Now()
	surveyID := uuid.New()

	m.db.On("WithinTx", ctx).Return(nil).Once()
	m.repo.On("SaveStory", ctx, mock.MatchedBy(func(s models.Story) bool {
		return s.StoryType == models.StoryTypeSurvey
	})).Return(uuid.New(), nil).Once()
	m.translations.On("UpsertTranslation", ctx, mock.Anything).Return(nil)
	m.repo.On("SaveSurvey", ctx, mock.MatchedBy(func(s models.Survey) bool {
		return s.Question == "Favourite meal?"
	})).Return(surveyID, nil).Once()
	m.repo.On("SaveSurveyOption", ctx, mock.MatchedBy(func(o models.SurveyOption) bool {
		return o.SurveyID == surveyID && o.OptionText == "Pizza" && o.Order == 0
	})).Return(uuid.New(), nil).Once()
	m.repo.On("SaveSurveyOption", ctx, mock.MatchedBy(func(o models.SurveyOption) bool {
		return o.SurveyID == surveyID && o.OptionText == "Plov" && o.Order == 1
	})).Return(uuid.New(), nil).Once()

	storyID, err := service.CreateStory(ctx, dto.StoryCreateInput{
		StoryType: "survey",
		StartDate: now,
		EndDate:   now.Add(24 * time.Hour),
		IsActive:  true,
		Survey: &dto.SurveyInput{
			Question: "Favourite meal?",
			Options:  []string{"Pizza", "Plov"},
		},
		Payload: translation.WriteInput{
			Values: map[string]string{"title_uz": "So'rovnoma"},
		},
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, storyID)
	m.repo.AssertExpectations(t)
}

func TestStoryService_CreateStory_InvalidDates(t *testing.T) {
	ctx := context.Background()
	service, m := newStoryService(t)

	now := time.Now()

	_, err := service.CreateStory(ctx, dto.StoryCreateInput{
		StoryType: "promo",
		StartDate: now,
		EndDate:   now.Add(-time.Hour),
	})

	var verr *translation.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "end date")

	// ничего не записано
	m.db.AssertNotCalled(t, "WithinTx", mock.Anything)
	m.repo.AssertNotCalled(t, "SaveStory", mock.Anything, mock.Anything)
}

func TestStoryService_CreateStory_SurveyTypeRequiresSurvey(t *testing.T) {
	ctx := context.Background()
	service, m := newStoryService(t)

	now := time.Now()

	_, err := service.CreateStory(ctx, dto.StoryCreateInput{
		StoryType: "survey",
		StartDate: now,
		EndDate:   now.Add(time.Hour),
	})

	var verr *translation.ValidationError
	require.ErrorAs(t, err, &verr)
	m.db.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestStoryService_Vote(t *testing.T) {
	ctx := context.Background()
	service, m := newStoryService(t)

	storyID := uuid.New()
	surveyID := uuid.New()
	optionID := uuid.New()
	userID := uuid.New()

	survey := &models.Survey{ID: surveyID, StoryID: storyID}
	options := []models.SurveyOption{
		{ID: optionID, SurveyID: surveyID, OptionText: "Pizza"},
		{ID: uuid.New(), SurveyID: surveyID, OptionText: "Plov"},
	}

	m.repo.On("GetSurveyByStoryID", ctx, storyID).Return(survey, options, nil)
	m.repo.On("SaveSurveyResponse", ctx, mock.MatchedBy(func(r models.SurveyResponse) bool {
		return r.SurveyID == surveyID && r.UserID == userID && r.OptionID == optionID
	})).Return(nil).Once()

	err := service.Vote(ctx, storyID, userID, optionID, nil)
	require.NoError(t, err)

	// вариант из чужого опроса отклоняется до записи
	err = service.Vote(ctx, storyID, userID, uuid.New(), nil)
	var verr *translation.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestStoryService_Vote_Duplicate(t *testing.T) {
	ctx := context.Background()
	service, m := newStoryService(t)

	storyID := uuid.New()
	surveyID := uuid.New()
	optionID := uuid.New()

	survey := &models.Survey{ID: surveyID, StoryID: storyID}
	options := []models.SurveyOption{{ID: optionID, SurveyID: surveyID}}

	m.repo.On("GetSurveyByStoryID", ctx, storyID).Return(survey, options, nil).Once()
	m.repo.On("SaveSurveyResponse", ctx, mock.Anything).Return(storage.ErrAlreadyExists).Once()

	err := service.Vote(ctx, storyID, uuid.New(), optionID, nil)

	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestStoryService_GetStory_SurveyLookupFailure(t *testing.T) {
	ctx := context.Background()
	service, m := newStoryService(t)

	storyID := uuid.New()
	story := &models.Story{
		ID:        storyID,
		StoryType: models.StoryTypeSurvey,
		StartDate: time.Now().UTC(),
		EndDate:   time.Now().UTC().Add(24 * time.Hour),
	}

	m.repo.On("GetStoryByID", ctx, storyID).Return(story, nil).Once()
	m.translations.On("ListTranslations", ctx, models.OwnerTypeStory, storyID).
		Return([]models.Translation{}, nil).Once()
	m.media.On("ListMediaByOwner", ctx, models.OwnerTypeStory, storyID).
		Return([]models.Media{}, nil).Once()
	m.repo.On("GetSurveyByStoryID", ctx, storyID).Return(nil, nil, assert.AnError).Once()

	// отказ базы при чтении опроса это ошибка ответа, а не история без опроса
	_, err := service.GetStory(ctx, storyID, translation.RequestContext{})

	require.ErrorIs(t, err, assert.AnError)
}

func TestStoryService_GetStory_SurveyNotSaved(t *testing.T) {
	ctx := context.Background()
	service, m := newStoryService(t)

	storyID := uuid.New()
	story := &models.Story{
		ID:        storyID,
		StoryType: models.StoryTypeSurvey,
		StartDate: time.Now().UTC(),
		EndDate:   time.Now().UTC().Add(24 * time.Hour),
	}

	m.repo.On("GetStoryByID", ctx, storyID).Return(story, nil).Once()
	m.translations.On("ListTranslations", ctx, models.OwnerTypeStory, storyID).
		Return([]models.Translation{}, nil).Once()
	m.media.On("ListMediaByOwner", ctx, models.OwnerTypeStory, storyID).
		Return([]models.Media{}, nil).Once()
	m.repo.On("GetSurveyByStoryID", ctx, storyID).Return(nil, nil, storage.ErrNotFound).Once()

	rep, err := service.GetStory(ctx, storyID, translation.RequestContext{})

	require.NoError(t, err)
	assert.NotContains(t, rep, "survey")
}
