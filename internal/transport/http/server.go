package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/musinov501/havas-api-clone/internal/domain/models"
	"github.com/musinov501/havas-api-clone/internal/lib/alerts"
	"github.com/musinov501/havas-api-clone/internal/lib/logger/sl"
	"github.com/musinov501/havas-api-clone/internal/middleware"
	"github.com/musinov501/havas-api-clone/internal/storage"
	"github.com/musinov501/havas-api-clone/internal/translation"
	"github.com/musinov501/havas-api-clone/internal/transport/http/dto"
	"github.com/musinov501/havas-api-clone/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ProductService interface {
	CreateProduct(ctx context.Context, input dto.ProductCreateInput) (uuid.UUID, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input dto.ProductUpdateInput) error
	GetProduct(ctx context.Context, productID uuid.UUID, rctx translation.RequestContext) (map[string]interface{}, error)
	ListProducts(ctx context.Context, category string, page, perPage int, rctx translation.RequestContext) ([]map[string]interface{}, int, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

type StoryService interface {
	CreateStory(ctx context.Context, input dto.StoryCreateInput) (uuid.UUID, error)
	UpdateStory(ctx context.Context, storyID uuid.UUID, input dto.StoryUpdateInput) error
	GetStory(ctx context.Context, storyID uuid.UUID, rctx translation.RequestContext) (map[string]interface{}, error)
	ListStories(ctx context.Context, page, perPage int, rctx translation.RequestContext) ([]map[string]interface{}, int, error)
	DeleteStory(ctx context.Context, storyID uuid.UUID) error
	Vote(ctx context.Context, storyID, userID, optionID uuid.UUID, deviceID *uuid.UUID) error
}

type CartService interface {
	CreateCart(ctx context.Context, userID uuid.UUID, name string) (uuid.UUID, error)
	ListCarts(ctx context.Context, userID uuid.UUID) ([]models.Cart, error)
	GetCart(ctx context.Context, cartID uuid.UUID) (map[string]interface{}, error)
	AddItem(ctx context.Context, cartID uuid.UUID, input dto.CartItemInput) (uuid.UUID, error)
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
}

type RecipeService interface {
	CreateRecipe(ctx context.Context, userID uuid.UUID, input dto.RecipeCreateInput) (uuid.UUID, error)
	UpdateRecipe(ctx context.Context, recipeID, userID uuid.UUID, input dto.RecipeUpdateInput) error
	GetRecipe(ctx context.Context, recipeID uuid.UUID, rctx translation.RequestContext) (map[string]interface{}, error)
	ListRecipes(ctx context.Context, userID uuid.UUID, rctx translation.RequestContext) ([]map[string]interface{}, error)
	DeleteRecipe(ctx context.Context, recipeID, userID uuid.UUID) error
}

type NotificationService interface {
	Send(ctx context.Context, input dto.NotificationInput) (uuid.UUID, error)
	ListForUser(ctx context.Context, userID uuid.UUID, rctx translation.RequestContext) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) error
}

type DeviceService interface {
	RegisterDevice(ctx context.Context, input dto.DeviceRegisterInput) (*models.Device, error)
	RegisterUser(ctx context.Context, input dto.UserRegisterInput) (uuid.UUID, error)
	GetUser(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type Routers struct {
	log                 *slog.Logger
	alerts              *alerts.Alerter
	ProductService      ProductService
	StoryService        StoryService
	CartService         CartService
	RecipeService       RecipeService
	NotificationService NotificationService
	DeviceService       DeviceService
}

func NewRouter(
	log *slog.Logger,
	alerter *alerts.Alerter,
	productService ProductService,
	storyService StoryService,
	cartService CartService,
	recipeService RecipeService,
	notificationService NotificationService,
	deviceService DeviceService,
) *Routers {
	return &Routers{
		log:                 log,
		alerts:              alerter,
		ProductService:      productService,
		StoryService:        storyService,
		CartService:         cartService,
		RecipeService:       recipeService,
		NotificationService: notificationService,
		DeviceService:       deviceService,
	}
}

// CreateProduct godoc
// @Summary Создание товара
// @Description Мультиязычные тексты передаются плоскими ключами title_en,
// @Description description_uz и т.д., картинки файлами images_<lang>
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param price formData number true "Цена"
// @Param discount formData integer false "Скидка в процентах 0-100"
// @Param category formData string true "Категория" Enums(BREAKFAST, LUNCH, DINNER, ALL)
// @Param measurement_type formData string true "Единица измерения" Enums(GR, PC, L)
// @Success 201 {object} response.Response{data=object{product_id=string}}
// @Failure 400 {object} response.ErrorResponse "Невалидный payload"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/v1/products [post]
func (r *Routers) CreateProduct(c echo.Context) error {
	const op = "http.routers.CreateProduct"

	log := r.log.With(
		slog.String("op", op),
	)

	input, err := r.parseProductCreateInput(c)
	if err != nil {
		log.Warn("failed to parse form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	if err := c.Validate(input); err != nil {
		log.Warn("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	productID, err := r.ProductService.CreateProduct(c.Request().Context(), *input)
	if err != nil {
		return r.serviceError(c, log, err)
	}

	log.Info("product created", slog.String("product_id", productID.String()))

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]uuid.UUID{
		"product_id": productID,
	}))
}

// UpdateProduct godoc
// @Summary Частичное обновление товара
// @Description Отсутствующие поля не меняются, переводы дописываются поверх
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param product_id path string true "UUID товара" format(uuid)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Router /api/v1/products/{product_id} [patch]
func (r *Routers) UpdateProduct(c echo.Context) error {
	const op = "http.routers.UpdateProduct"

	log := r.log.With(
		slog.String("op", op),
	)

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid product ID format"))
	}

	input, err := r.parseProductUpdateInput(c)
	if err != nil {
		log.Warn("failed to parse form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	if err := c.Validate(input); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	if err := r.ProductService.UpdateProduct(c.Request().Context(), productID, *input); err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]uuid.UUID{
		"product_id": productID,
	}))
}

// GetProduct godoc
// @Summary Получение товара
// @Description Представление зависит от устройства: MOBILE с валидным языком
// @Description получает один язык, остальные все языки с суффиксами
// @Tags products
// @Produce json
// @Param product_id path string true "UUID товара" format(uuid)
// @Param Token header string false "Токен устройства"
// @Param Language header string false "Код языка (RU, EN, CRL, UZ)"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Router /api/v1/products/{product_id} [get]
func (r *Routers) GetProduct(c echo.Context) error {
	const op = "http.routers.GetProduct"

	log := r.log.With(
		slog.String("op", op),
	)

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid product ID format"))
	}

	rep, err := r.ProductService.GetProduct(c.Request().Context(), productID, middleware.GetRequestContext(c))
	if err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(rep))
}

// ListProducts godoc
// @Summary Список активных товаров
// @Tags products
// @Produce json
// @Param category query string false "Фильтр по категории"
// @Param page query integer false "Номер страницы"
// @Param per_page query integer false "Размер страницы (макс. 100)"
// @Success 200 {object} response.ListResponse
// @Router /api/v1/products [get]
func (r *Routers) ListProducts(c echo.Context) error {
	const op = "http.routers.ListProducts"

	log := r.log.With(
		slog.String("op", op),
	)

	page, perPage := paginationParams(c)

	products, total, err := r.ProductService.ListProducts(
		c.Request().Context(),
		c.QueryParam("category"),
		page, perPage,
		middleware.GetRequestContext(c),
	)
	if err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.PagedResponse(products, total, page, perPage))
}

// DeleteProduct godoc
// @Summary Удаление товара вместе с переводами и медиа
// @Tags products
// @Produce json
// @Param product_id path string true "UUID товара" format(uuid)
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/products/{product_id} [delete]
func (r *Routers) DeleteProduct(c echo.Context) error {
	const op = "http.routers.DeleteProduct"

	log := r.log.With(
		slog.String("op", op),
	)

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid product ID format"))
	}

	if err := r.ProductService.DeleteProduct(c.Request().Context(), productID); err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "product deleted"})
}

// CreateStory godoc
// @Summary Создание истории
// @Description Для story_type=survey блок опроса передается JSON-строкой
// @Description в поле survey: {"question": "...", "options": ["...", "..."]}
// @Tags stories
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} response.Response{data=object{story_id=string}}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/stories [post]
func (r *Routers) CreateStory(c echo.Context) error {
	const op = "http.routers.CreateStory"

	log := r.log.With(
		slog.String("op", op),
	)

	input, err := r.parseStoryCreateInput(c)
	if err != nil {
		log.Warn("failed to parse form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	if err := c.Validate(input); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}
	if input.Survey != nil {
		if err := c.Validate(input.Survey); err != nil {
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
		}
	}

	storyID, err := r.StoryService.CreateStory(c.Request().Context(), *input)
	if err != nil {
		return r.serviceError(c, log, err)
	}

	log.Info("story created", slog.String("story_id", storyID.String()))

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]uuid.UUID{
		"story_id": storyID,
	}))
}

func (r *Routers) UpdateStory(c echo.Context) error {
	const op = "http.routers.UpdateStory"

	log := r.log.With(
		slog.String("op", op),
	)

	storyID, err := uuid.Parse(c.Param("story_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid story ID format"))
	}

	input, err := r.parseStoryUpdateInput(c)
	if err != nil {
		log.Warn("failed to parse form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	if err := r.StoryService.UpdateStory(c.Request().Context(), storyID, *input); err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]uuid.UUID{
		"story_id": storyID,
	}))
}

func (r *Routers) GetStory(c echo.Context) error {
	const op = "http.routers.GetStory"

	log := r.log.With(
		slog.String("op", op),
	)

	storyID, err := uuid.Parse(c.Param("story_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid story ID format"))
	}

	rep, err := r.StoryService.GetStory(c.Request().Context(), storyID, middleware.GetRequestContext(c))
	if err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(rep))
}

func (r *Routers) ListStories(c echo.Context) error {
	const op = "http.routers.ListStories"

	log := r.log.With(
		slog.String("op", op),
	)

	page, perPage := paginationParams(c)

	stories, total, err := r.StoryService.ListStories(c.Request().Context(), page, perPage, middleware.GetRequestContext(c))
	if err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.PagedResponse(stories, total, page, perPage))
}

func (r *Routers) DeleteStory(c echo.Context) error {
	const op = "http.routers.DeleteStory"

	log := r.log.With(
		slog.String("op", op),
	)

	storyID, err := uuid.Parse(c.Param("story_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid story ID format"))
	}

	if err := r.StoryService.DeleteStory(c.Request().Context(), storyID); err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "story deleted"})
}

// VoteSurvey godoc
// @Summary Голос в опросе истории
// @Description Повторный голос того же пользователя отклоняется с 409
// @Tags stories
// @Accept json
// @Produce json
// @Param story_id path string true "UUID истории" format(uuid)
// @Param request body dto.SurveyVoteRequest true "Голос"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.ErrorResponse "Пользователь уже голосовал"
// @Router /api/v1/stories/{story_id}/vote [post]
func (r *Routers) VoteSurvey(c echo.Context) error {
	const op = "http.routers.VoteSurvey"

	log := r.log.With(
		slog.String("op", op),
	)

	storyID, err := uuid.Parse(c.Param("story_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid story ID format"))
	}

	var req dto.SurveyVoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	if err := r.StoryService.Vote(c.Request().Context(), storyID, req.UserID, req.OptionID, req.DeviceID); err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "vote accepted"})
}

func (r *Routers) CreateCart(c echo.Context) error {
	const op = "http.routers.CreateCart"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.CartCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	cartID, err := r.CartService.CreateCart(c.Request().Context(), req.UserID, req.Name)
	if err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]uuid.UUID{
		"cart_id": cartID,
	}))
}

func (r *Routers) ListCarts(c echo.Context) error {
	const op = "http.routers.ListCarts"

	log := r.log.With(
		slog.String("op", op),
	)

	userID, err := uuid.Parse(c.QueryParam("user_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid user ID format"))
	}

	carts, err := r.CartService.ListCarts(c.Request().Context(), userID)
	if err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(carts))
}

// GetCart godoc
// @Summary Корзина с позициями
// @Description Итог считается по актуальным ценам товаров на момент запроса
// @Tags carts
// @Produce json
// @Param cart_id path string true "UUID корзины" format(uuid)
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/carts/{cart_id} [get]
func (r *Routers) GetCart(c echo.Context) error {
	const op = "http.routers.GetCart"

	log := r.log.With(
		slog.String("op", op),
	)

	cartID, err := uuid.Parse(c.Param("cart_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid cart ID format"))
	}

	cart, err := r.CartService.GetCart(c.Request().Context(), cartID)
	if err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(cart))
}

func (r *Routers) AddCartItem(c echo.Context) error {
	const op = "http.routers.AddCartItem"

	log := r.log.With(
		slog.String("op", op),
	)

	cartID, err := uuid.Parse(c.Param("cart_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid cart ID format"))
	}

	var req dto.CartItemInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	itemID, err := r.CartService.AddItem(c.Request().Context(), cartID, req)
	if err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]uuid.UUID{
		"item_id": itemID,
	}))
}

func (r *Routers) RemoveCartItem(c echo.Context) error {
	const op = "http.routers.RemoveCartItem"

	log := r.log.With(
		slog.String("op", op),
	)

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid item ID format"))
	}

	if err := r.CartService.RemoveItem(c.Request().Context(), itemID); err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "item removed"})
}

// CreateRecipe godoc
// @Summary Создание рецепта
// @Description Ингредиенты передаются JSON-строкой в поле ingredients,
// @Description картинка файлом image
// @Tags recipes
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} response.Response{data=object{recipe_id=string}}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/recipes [post]
func (r *Routers) CreateRecipe(c echo.Context) error {
	const op = "http.routers.CreateRecipe"

	log := r.log.With(
		slog.String("op", op),
	)

	userID, err := uuid.Parse(c.FormValue("user_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid user ID format"))
	}

	input, err := r.parseRecipeCreateInput(c)
	if err != nil {
		log.Warn("failed to parse form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	if err := c.Validate(input); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}
	for _, ing := range input.Ingredients {
		if err := c.Validate(ing); err != nil {
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
		}
	}

	recipeID, err := r.RecipeService.CreateRecipe(c.Request().Context(), userID, *input)
	if err != nil {
		return r.serviceError(c, log, err)
	}

	log.Info("recipe created", slog.String("recipe_id", recipeID.String()))

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]uuid.UUID{
		"recipe_id": recipeID,
	}))
}

// UpdateRecipe godoc
// @Summary Частичное обновление рецепта
// @Description Отсутствующие поля не меняются, новые файлы дописываются
// @Tags recipes
// @Accept multipart/form-data
// @Produce json
// @Param recipe_id path string true "UUID рецепта" format(uuid)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Рецепт не найден"
// @Router /api/v1/recipes/{recipe_id} [patch]
func (r *Routers) UpdateRecipe(c echo.Context) error {
	const op = "http.routers.UpdateRecipe"

	log := r.log.With(
		slog.String("op", op),
	)

	recipeID, err := uuid.Parse(c.Param("recipe_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid recipe ID format"))
	}

	userID, err := uuid.Parse(c.FormValue("user_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid user ID format"))
	}

	input, err := r.parseRecipeUpdateInput(c)
	if err != nil {
		log.Warn("failed to parse form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	if err := c.Validate(input); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	if err := r.RecipeService.UpdateRecipe(c.Request().Context(), recipeID, userID, *input); err != nil {
		return r.serviceError(c, log, err)
	}

	log.Info("recipe updated", slog.String("recipe_id", recipeID.String()))

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "recipe updated"})
}

func (r *Routers) GetRecipe(c echo.Context) error {
	const op = "http.routers.GetRecipe"

	log := r.log.With(
		slog.String("op", op),
	)

	recipeID, err := uuid.Parse(c.Param("recipe_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid recipe ID format"))
	}

	rep, err := r.RecipeService.GetRecipe(c.Request().Context(), recipeID, middleware.GetRequestContext(c))
	if err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(rep))
}

func (r *Routers) ListRecipes(c echo.Context) error {
	const op = "http.routers.ListRecipes"

	log := r.log.With(
		slog.String("op", op),
	)

	userID, err := uuid.Parse(c.QueryParam("user_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid user ID format"))
	}

	recipes, err := r.RecipeService.ListRecipes(c.Request().Context(), userID, middleware.GetRequestContext(c))
	if err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(recipes))
}

func (r *Routers) DeleteRecipe(c echo.Context) error {
	const op = "http.routers.DeleteRecipe"

	log := r.log.With(
		slog.String("op", op),
	)

	recipeID, err := uuid.Parse(c.Param("recipe_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid recipe ID format"))
	}

	userID, err := uuid.Parse(c.QueryParam("user_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid user ID format"))
	}

	if err := r.RecipeService.DeleteRecipe(c.Request().Context(), recipeID, userID); err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "recipe deleted"})
}

// SendNotification godoc
// @Summary Отправка уведомления
// @Description recipient_id отсутствует — уведомление широковещательное
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body dto.NotificationInput true "Уведомление"
// @Success 201 {object} response.Response{data=object{notification_id=string}}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/notifications [post]
func (r *Routers) SendNotification(c echo.Context) error {
	const op = "http.routers.SendNotification"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.NotificationInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	id, err := r.NotificationService.Send(c.Request().Context(), req)
	if err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]uuid.UUID{
		"notification_id": id,
	}))
}

func (r *Routers) ListNotifications(c echo.Context) error {
	const op = "http.routers.ListNotifications"

	log := r.log.With(
		slog.String("op", op),
	)

	userID, err := uuid.Parse(c.QueryParam("user_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid user ID format"))
	}

	notifications, err := r.NotificationService.ListForUser(c.Request().Context(), userID, middleware.GetRequestContext(c))
	if err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(notifications))
}

func (r *Routers) MarkNotificationRead(c echo.Context) error {
	const op = "http.routers.MarkNotificationRead"

	log := r.log.With(
		slog.String("op", op),
	)

	notificationID, err := uuid.Parse(c.Param("notification_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid notification ID format"))
	}

	if err := r.NotificationService.MarkRead(c.Request().Context(), notificationID); err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "marked as read"})
}

// RegisterDevice godoc
// @Summary Регистрация устройства
// @Description Возвращает device_token для заголовка Token
// @Tags devices
// @Accept json
// @Produce json
// @Param request body dto.DeviceRegisterInput true "Данные устройства"
// @Success 201 {object} response.Response{data=object{device_token=string}}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/devices [post]
func (r *Routers) RegisterDevice(c echo.Context) error {
	const op = "http.routers.RegisterDevice"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.DeviceRegisterInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	device, err := r.DeviceService.RegisterDevice(c.Request().Context(), req)
	if err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]interface{}{
		"device_id":    device.ID,
		"device_token": device.DeviceToken,
		"language":     device.Language,
	}))
}

func (r *Routers) RegisterUser(c echo.Context) error {
	const op = "http.routers.RegisterUser"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.UserRegisterInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	userID, err := r.DeviceService.RegisterUser(c.Request().Context(), req)
	if err != nil {
		return r.serviceError(c, log, err)
	}

	log.Info("user registered", slog.String("user_id", userID.String()))

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]uuid.UUID{
		"user_id": userID,
	}))
}

func (r *Routers) GetUser(c echo.Context) error {
	const op = "http.routers.GetUser"

	log := r.log.With(
		slog.String("op", op),
	)

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid user ID format"))
	}

	user, err := r.DeviceService.GetUser(c.Request().Context(), userID)
	if err != nil {
		return r.serviceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(user))
}

// serviceError переводит ошибки сервисов в HTTP-статусы. Необработанные
// ошибки уходят alert-ом в telegram
func (r *Routers) serviceError(c echo.Context, log *slog.Logger, err error) error {
	var verr *translation.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Warn("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", verr.Error()))
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, storage.ErrAlreadyExists):
		return c.JSON(http.StatusConflict, response.ErrAlreadyExists)
	}

	log.Error("request failed", sl.Err(err))
	r.alerts.Alert(c.Request().Method+" "+c.Path(), err, c.RealIP())

	return c.JSON(http.StatusInternalServerError, response.ErrInternal)
}

// collectWritePayload собирает мультиязычный payload из multipart-формы:
// все текстовые поля кроме skip уходят в Values, все файлы в Files.
// Валидацию ключей делает экспандер на стороне сервиса.
func collectWritePayload(c echo.Context, skip ...string) (translation.WriteInput, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return translation.WriteInput{}, err
	}

	skipped := make(map[string]struct{}, len(skip))
	for _, key := range skip {
		skipped[key] = struct{}{}
	}

	values := make(map[string]string)
	for key, vals := range form.Value {
		if _, ok := skipped[key]; ok {
			continue
		}
		if len(vals) > 0 {
			values[key] = vals[0]
		}
	}

	files := make(map[string][]*multipart.FileHeader)
	for key, headers := range form.File {
		files[key] = headers
	}

	return translation.WriteInput{Values: values, Files: files}, nil
}

func (r *Routers) parseProductCreateInput(c echo.Context) (*dto.ProductCreateInput, error) {
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return nil, errors.New("price must be a number")
	}

	input := dto.ProductCreateInput{
		Price:           price,
		Category:        c.FormValue("category"),
		MeasurementType: c.FormValue("measurement_type"),
	}

	if v := c.FormValue("discount"); v != "" {
		input.Discount, err = strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("discount must be an integer")
		}
	}
	if v := c.FormValue("is_active"); v != "" {
		input.IsActive, err = strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("is_active must be a boolean")
		}
	} else {
		input.IsActive = true
	}

	payload, err := collectWritePayload(c, "price", "discount", "category", "measurement_type", "is_active")
	if err != nil {
		return nil, err
	}
	input.Payload = payload

	return &input, nil
}

func (r *Routers) parseProductUpdateInput(c echo.Context) (*dto.ProductUpdateInput, error) {
	var input dto.ProductUpdateInput

	if v := c.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.New("price must be a number")
		}
		input.Price = &price
	}
	if v := c.FormValue("discount"); v != "" {
		discount, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("discount must be an integer")
		}
		input.Discount = &discount
	}
	if v := c.FormValue("category"); v != "" {
		input.Category = &v
	}
	if v := c.FormValue("measurement_type"); v != "" {
		input.MeasurementType = &v
	}
	if v := c.FormValue("is_active"); v != "" {
		isActive, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("is_active must be a boolean")
		}
		input.IsActive = &isActive
	}

	payload, err := collectWritePayload(c, "price", "discount", "category", "measurement_type", "is_active")
	if err != nil {
		return nil, err
	}
	input.Payload = payload

	return &input, nil
}

func (r *Routers) parseStoryCreateInput(c echo.Context) (*dto.StoryCreateInput, error) {
	startDate, err := time.Parse(time.RFC3339, c.FormValue("start_date"))
	if err != nil {
		return nil, errors.New("start_date must be RFC3339")
	}
	endDate, err := time.Parse(time.RFC3339, c.FormValue("end_date"))
	if err != nil {
		return nil, errors.New("end_date must be RFC3339")
	}

	input := dto.StoryCreateInput{
		StoryType: c.FormValue("story_type"),
		StartDate: startDate,
		EndDate:   endDate,
		IsActive:  true,
	}

	if v := c.FormValue("is_active"); v != "" {
		input.IsActive, err = strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("is_active must be a boolean")
		}
	}
	if v := c.FormValue("product_id"); v != "" {
		productID, err := uuid.Parse(v)
		if err != nil {
			return nil, errors.New("product_id must be a UUID")
		}
		input.ProductID = &productID
	}
	if v := c.FormValue("survey"); v != "" {
		var survey dto.SurveyInput
		if err := json.Unmarshal([]byte(v), &survey); err != nil {
			return nil, errors.New("survey must be a JSON object")
		}
		input.Survey = &survey
	}

	payload, err := collectWritePayload(c, "story_type", "start_date", "end_date", "is_active", "product_id", "survey")
	if err != nil {
		return nil, err
	}
	input.Payload = payload

	return &input, nil
}

func (r *Routers) parseStoryUpdateInput(c echo.Context) (*dto.StoryUpdateInput, error) {
	var input dto.StoryUpdateInput

	if v := c.FormValue("start_date"); v != "" {
		startDate, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, errors.New("start_date must be RFC3339")
		}
		input.StartDate = &startDate
	}
	if v := c.FormValue("end_date"); v != "" {
		endDate, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, errors.New("end_date must be RFC3339")
		}
		input.EndDate = &endDate
	}
	if v := c.FormValue("is_active"); v != "" {
		isActive, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("is_active must be a boolean")
		}
		input.IsActive = &isActive
	}
	if v := c.FormValue("product_id"); v != "" {
		productID, err := uuid.Parse(v)
		if err != nil {
			return nil, errors.New("product_id must be a UUID")
		}
		input.ProductID = &productID
	}

	payload, err := collectWritePayload(c, "start_date", "end_date", "is_active", "product_id")
	if err != nil {
		return nil, err
	}
	input.Payload = payload

	return &input, nil
}

func (r *Routers) parseRecipeCreateInput(c echo.Context) (*dto.RecipeCreateInput, error) {
	input := dto.RecipeCreateInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
	}

	if v := c.FormValue("cook_time"); v != "" {
		cookTime, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("cook_time must be an integer")
		}
		input.CookTime = cookTime
	}
	if v := c.FormValue("ingredients"); v != "" {
		if err := json.Unmarshal([]byte(v), &input.Ingredients); err != nil {
			return nil, errors.New("ingredients must be a JSON array")
		}
	}

	payload, err := collectWritePayload(c, "user_id", "title", "description", "cook_time", "ingredients")
	if err != nil {
		return nil, err
	}
	input.Payload = payload

	return &input, nil
}

func (r *Routers) parseRecipeUpdateInput(c echo.Context) (*dto.RecipeUpdateInput, error) {
	var input dto.RecipeUpdateInput

	if v := c.FormValue("title"); v != "" {
		input.Title = &v
	}
	if v := c.FormValue("description"); v != "" {
		input.Description = &v
	}
	if v := c.FormValue("cook_time"); v != "" {
		cookTime, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("cook_time must be an integer")
		}
		input.CookTime = &cookTime
	}

	payload, err := collectWritePayload(c, "user_id", "title", "description", "cook_time")
	if err != nil {
		return nil, err
	}
	input.Payload = payload

	return &input, nil
}

func paginationParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}
