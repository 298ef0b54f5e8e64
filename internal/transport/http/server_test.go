package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/musinov501/havas-api-clone/internal/storage"
	"github.com/musinov501/havas-api-clone/internal/translation"
	"github.com/musinov501/havas-api-clone/internal/transport/http/dto"
	httprouters "github.com/musinov501/havas-api-clone/internal/transport/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateProduct(ctx context.Context, input dto.ProductCreateInput) (uuid.UUID, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, productID uuid.UUID, input dto.ProductUpdateInput) error {
	args := m.Called(ctx, productID, input)
	return args.Error(0)
}

func (m *MockProductService) GetProduct(ctx context.Context, productID uuid.UUID, rctx translation.RequestContext) (map[string]interface{}, error) {
	args := m.Called(ctx, productID, rctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockProductService) ListProducts(ctx context.Context, category string, page, perPage int, rctx translation.RequestContext) ([]map[string]interface{}, int, error) {
	args := m.Called(ctx, category, page, perPage, rctx)
	return args.Get(0).([]map[string]interface{}), args.Int(1), args.Error(2)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

type MockStoryService struct {
	mock.Mock
}

func (m *MockStoryService) CreateStory(ctx context.Context, input dto.StoryCreateInput) (uuid.UUID, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockStoryService) UpdateStory(ctx context.Context, storyID uuid.UUID, input dto.StoryUpdateInput) error {
	args := m.Called(ctx, storyID, input)
	return args.Error(0)
}

func (m *MockStoryService) GetStory(ctx context.Context, storyID uuid.UUID, rctx translation.RequestContext) (map[string]interface{}, error) {
	args := m.Called(ctx, storyID, rctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockStoryService) ListStories(ctx context.Context, page, perPage int, rctx translation.RequestContext) ([]map[string]interface{}, int, error) {
	args := m.Called(ctx, page, perPage, rctx)
	return args.Get(0).([]map[string]interface{}), args.Int(1), args.Error(2)
}

func (m *MockStoryService) DeleteStory(ctx context.Context, storyID uuid.UUID) error {
	args := m.Called(ctx, storyID)
	return args.Error(0)
}

func (m *MockStoryService) Vote(ctx context.Context, storyID, userID, optionID uuid.UUID, deviceID *uuid.UUID) error {
	args := m.Called(ctx, storyID, userID, optionID, deviceID)
	return args.Error(0)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	for key, filename := range files {
		fw, err := w.CreateFormFile(key, filename)
		require.NoError(t, err)
		_, err = io.Copy(fw, strings.NewReader("file-content"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

func TestRouters_CreateProduct(t *testing.T) {
	products := new(MockProductService)
	routers := httprouters.NewRouter(slog.Default(), nil, products, nil, nil, nil, nil, nil)

	productID := uuid.New()

	products.On("CreateProduct", mock.Anything, mock.MatchedBy(func(input dto.ProductCreateInput) bool {
		return input.Price == 100 &&
			input.Discount == 20 &&
			input.Category == "LUNCH" &&
			input.Payload.Values["title_en"] == "Pizza" &&
			len(input.Payload.Files["images_en"]) == 1
	})).Return(productID, nil).Once()

	body, contentType := multipartBody(t,
		map[string]string{
			"price":            "100",
			"discount":         "20",
			"category":         "LUNCH",
			"measurement_type": "PC",
			"title_en":         "Pizza",
		},
		map[string]string{"images_en": "pizza.png"},
	)

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()

	err := routers.CreateProduct(e.NewContext(req, rec))

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	products.AssertExpectations(t)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
}

func TestRouters_CreateProduct_BadPrice(t *testing.T) {
	products := new(MockProductService)
	routers := httprouters.NewRouter(slog.Default(), nil, products, nil, nil, nil, nil, nil)

	body, contentType := multipartBody(t,
		map[string]string{
			"price":            "not-a-number",
			"category":         "LUNCH",
			"measurement_type": "PC",
		},
		nil,
	)

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()

	err := routers.CreateProduct(e.NewContext(req, rec))

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	products.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestRouters_GetProduct_NotFound(t *testing.T) {
	products := new(MockProductService)
	routers := httprouters.NewRouter(slog.Default(), nil, products, nil, nil, nil, nil, nil)

	productID := uuid.New()
	products.On("GetProduct", mock.Anything, productID, mock.Anything).
		Return(nil, fmt.Errorf("product_service.GetProduct: %w", storage.ErrNotFound)).Once()

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("product_id")
	c.SetParamValues(productID.String())

	err := routers.GetProduct(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouters_VoteSurvey_Duplicate(t *testing.T) {
	stories := new(MockStoryService)
	routers := httprouters.NewRouter(slog.Default(), nil, nil, stories, nil, nil, nil, nil)

	storyID := uuid.New()
	vote := dto.SurveyVoteRequest{UserID: uuid.New(), OptionID: uuid.New()}

	stories.On("Vote", mock.Anything, storyID, vote.UserID, vote.OptionID, (*uuid.UUID)(nil)).
		Return(fmt.Errorf("story_service.Vote: %w", storage.ErrAlreadyExists)).Once()

	payload, err := json.Marshal(vote)
	require.NoError(t, err)

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stories/"+storyID.String()+"/vote", bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("story_id")
	c.SetParamValues(storyID.String())

	require.NoError(t, routers.VoteSurvey(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouters_VoteSurvey_InvalidBody(t *testing.T) {
	stories := new(MockStoryService)
	routers := httprouters.NewRouter(slog.Default(), nil, nil, stories, nil, nil, nil, nil)

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stories/"+uuid.NewString()+"/vote", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("story_id")
	c.SetParamValues(uuid.NewString())

	require.NoError(t, routers.VoteSurvey(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	stories.AssertNotCalled(t, "Vote", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
