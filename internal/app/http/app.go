package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	appmw "github.com/musinov501/havas-api-clone/internal/middleware"
	httprouters "github.com/musinov501/havas-api-clone/internal/transport/http"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	host    string
	port    string
}

func New(log *slog.Logger, host, port string, routers *httprouters.Routers, devices appmw.DeviceProvider) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	e.Use(appmw.PrometheusMetrics)

	// резолвит заголовки Token/Language в контекст представления
	e.Use(appmw.DeviceContext(log, devices))

	mux := http.NewServeMux()
	err := statsviz.Register(mux)
	if err != nil {
		log.Info("Statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		host:    host,
		port:    port,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	api := s.e.Group("/api/v1")
	{
		api.POST("/register", s.routers.RegisterUser)
		api.POST("/devices", s.routers.RegisterDevice)
		api.GET("/users/:user_id", s.routers.GetUser)

		productGroup := api.Group("/products")
		{
			productGroup.POST("", s.routers.CreateProduct)
			productGroup.GET("", s.routers.ListProducts)
			productGroup.GET("/:product_id", s.routers.GetProduct)
			productGroup.PATCH("/:product_id", s.routers.UpdateProduct)
			productGroup.DELETE("/:product_id", s.routers.DeleteProduct)
		}

		storyGroup := api.Group("/stories")
		{
			storyGroup.POST("", s.routers.CreateStory)
			storyGroup.GET("", s.routers.ListStories)
			storyGroup.GET("/:story_id", s.routers.GetStory)
			storyGroup.PATCH("/:story_id", s.routers.UpdateStory)
			storyGroup.DELETE("/:story_id", s.routers.DeleteStory)
			storyGroup.POST("/:story_id/vote", s.routers.VoteSurvey)
		}

		cartGroup := api.Group("/carts")
		{
			cartGroup.POST("", s.routers.CreateCart)
			cartGroup.GET("", s.routers.ListCarts)
			cartGroup.GET("/:cart_id", s.routers.GetCart)
			cartGroup.POST("/:cart_id/items", s.routers.AddCartItem)
			cartGroup.DELETE("/items/:item_id", s.routers.RemoveCartItem)
		}

		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.POST("", s.routers.CreateRecipe)
			recipeGroup.GET("", s.routers.ListRecipes)
			recipeGroup.GET("/:recipe_id", s.routers.GetRecipe)
			recipeGroup.PATCH("/:recipe_id", s.routers.UpdateRecipe)
			recipeGroup.DELETE("/:recipe_id", s.routers.DeleteRecipe)
		}

		notificationGroup := api.Group("/notifications")
		{
			notificationGroup.POST("", s.routers.SendNotification)
			notificationGroup.GET("", s.routers.ListNotifications)
			notificationGroup.POST("/:notification_id/read", s.routers.MarkNotificationRead)
		}
	}
}
