package repository

import (
	"context"

	"github.com/musinov501/havas-api-clone/internal/domain/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

type TranslationRepository interface {
	UpsertTranslation(ctx context.Context, t models.Translation) error
	ListTranslations(ctx context.Context, owner models.OwnerType, ownerID uuid.UUID) ([]models.Translation, error)
	DeleteTranslationsByOwner(ctx context.Context, owner models.OwnerType, ownerID uuid.UUID) error
	WithTx(tx pgx.Tx) TranslationRepository
}

type MediaRepository interface {
	CreateMedia(ctx context.Context, media *models.Media) (*models.Media, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	ListMediaByOwner(ctx context.Context, owner models.OwnerType, ownerID uuid.UUID) ([]models.Media, error)
	ListMedia(ctx context.Context, owner models.OwnerType, ownerID uuid.UUID, kind models.MediaType, language *models.Language) ([]models.Media, error)
	DeleteMediaByOwner(ctx context.Context, owner models.OwnerType, ownerID uuid.UUID) ([]string, error)
	WithTx(tx pgx.Tx) MediaRepository
}

type ProductRepository interface {
	SaveProduct(ctx context.Context, product models.Product) (uuid.UUID, error)
	UpdateProductFields(ctx context.Context, productID uuid.UUID, updates map[string]interface{}) error
	GetProductByID(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, category string, page, perPage int) ([]models.Product, int, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	WithTx(tx pgx.Tx) ProductRepository
}

type StoryRepository interface {
	SaveStory(ctx context.Context, story models.Story) (uuid.UUID, error)
	UpdateStoryFields(ctx context.Context, storyID uuid.UUID, updates map[string]interface{}) error
	GetStoryByID(ctx context.Context, storyID uuid.UUID) (*models.Story, error)
	ListStories(ctx context.Context, activeOnly bool, page, perPage int) ([]models.Story, int, error)
	DeleteStory(ctx context.Context, storyID uuid.UUID) error
	SaveSurvey(ctx context.Context, survey models.Survey) (uuid.UUID, error)
	SaveSurveyOption(ctx context.Context, option models.SurveyOption) (uuid.UUID, error)
	GetSurveyByStoryID(ctx context.Context, storyID uuid.UUID) (*models.Survey, []models.SurveyOption, error)
	SaveSurveyResponse(ctx context.Context, response models.SurveyResponse) error
	WithTx(tx pgx.Tx) StoryRepository
}

type CartRepository interface {
	SaveCart(ctx context.Context, cart models.Cart) (uuid.UUID, error)
	ListCartsByUser(ctx context.Context, userID uuid.UUID) ([]models.Cart, error)
	GetCartByID(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
	AddCartItem(ctx context.Context, item models.CartItem) (uuid.UUID, error)
	ListCartItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	DeleteCartItem(ctx context.Context, itemID uuid.UUID) error
}

type RecipeRepository interface {
	SaveRecipe(ctx context.Context, recipe models.Recipe) (uuid.UUID, error)
	UpdateRecipeFields(ctx context.Context, recipeID uuid.UUID, updates map[string]interface{}) error
	GetRecipeByID(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error)
	ListRecipesByUser(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
	DeleteRecipe(ctx context.Context, recipeID uuid.UUID) error
	AddIngredient(ctx context.Context, ingredient models.RecipeIngredient) (uuid.UUID, error)
	ListIngredients(ctx context.Context, recipeID uuid.UUID) ([]models.RecipeIngredient, error)
	WithTx(tx pgx.Tx) RecipeRepository
}

type NotificationRepository interface {
	SaveNotification(ctx context.Context, notification models.Notification) (uuid.UUID, error)
	ListNotificationsForUser(ctx context.Context, userID uuid.UUID, language models.Language) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) error
}

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (uuid.UUID, error)
	GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type DeviceRepository interface {
	SaveDevice(ctx context.Context, device models.Device) (uuid.UUID, error)
	DeviceByToken(ctx context.Context, token string) (models.Device, error)
	ListDevicesByUser(ctx context.Context, userID uuid.UUID) ([]models.Device, error)
}
