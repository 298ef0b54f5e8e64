package app

import (
	"context"
	"log/slog"
	"time"

	httpapp "github.com/musinov501/havas-api-clone/internal/app/http"
	"github.com/musinov501/havas-api-clone/internal/config"
	"github.com/musinov501/havas-api-clone/internal/lib/alerts"
	"github.com/musinov501/havas-api-clone/internal/lib/logger/sl"
	"github.com/musinov501/havas-api-clone/internal/repository"
	cartservice "github.com/musinov501/havas-api-clone/internal/services/cart_service"
	deviceservice "github.com/musinov501/havas-api-clone/internal/services/device_service"
	notificationservice "github.com/musinov501/havas-api-clone/internal/services/notification_service"
	productservice "github.com/musinov501/havas-api-clone/internal/services/product_service"
	recipeservice "github.com/musinov501/havas-api-clone/internal/services/recipe_service"
	storyservice "github.com/musinov501/havas-api-clone/internal/services/story_service"
	filestorage "github.com/musinov501/havas-api-clone/internal/storage/filestorage"
	"github.com/musinov501/havas-api-clone/internal/storage/postgresql"
	redisapp "github.com/musinov501/havas-api-clone/internal/storage/redis"
	httprouters "github.com/musinov501/havas-api-clone/internal/transport/http"
)

const deviceCacheTTL = 15 * time.Minute

type App struct {
	HTTPServer *httpapp.Server
	Storage    *postgresql.Storage
	Redis      *redisapp.Client
}

func New(log *slog.Logger, cfg *config.Config) *App {
	storage, err := postgresql.New(context.Background(), cfg.DSN)
	if err != nil {
		panic(err)
	}

	redisClient := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL, cfg.FileStorage.MaxSize)
	if err != nil {
		panic(err)
	}

	alerter, err := alerts.New(log, cfg.Telegram.BotToken, cfg.Telegram.ChannelID)
	if err != nil {
		// алерты опциональны, без токена сервис живет дальше
		log.Warn("telegram alerts disabled", sl.Err(err))
	}

	pool := storage.Pool()

	translationRepo := repository.NewTranslationRepository(pool)
	mediaRepo := repository.NewMediaRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	storyRepo := repository.NewStoryRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	recipeRepo := repository.NewRecipeRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	deviceRepo := repository.NewCachedDeviceRepo(repository.NewDeviceRepository(pool), redisClient, deviceCacheTTL)

	productService := productservice.NewProductService(log, storage, productRepo, translationRepo, mediaRepo, notificationRepo, fileStorage)
	storyService := storyservice.NewStoryService(log, storage, storyRepo, translationRepo, mediaRepo, fileStorage)
	cartService := cartservice.NewCartService(log, cartRepo, productRepo)
	recipeService := recipeservice.NewRecipeService(log, storage, recipeRepo, productRepo, translationRepo, mediaRepo, fileStorage)
	notificationService := notificationservice.NewNotificationService(log, notificationRepo)
	deviceService := deviceservice.NewDeviceService(log, deviceRepo, userRepo)

	routers := httprouters.NewRouter(
		log,
		alerter,
		productService,
		storyService,
		cartService,
		recipeService,
		notificationService,
		deviceService,
	)

	server := httpapp.New(log, cfg.HTTP.Host, cfg.HTTP.Port, routers, deviceRepo)

	return &App{
		HTTPServer: server,
		Storage:    storage,
		Redis:      redisClient,
	}
}

func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		panic(err)
	}
	a.Storage.Stop()
	a.Redis.Close()
}
