package middleware

import (
	"context"
	"log/slog"

	"github.com/musinov501/havas-api-clone/internal/domain/models"
	"github.com/musinov501/havas-api-clone/internal/lib/logger/sl"
	"github.com/musinov501/havas-api-clone/internal/translation"

	"github.com/labstack/echo/v4"
)

// RequestContextKey ключ, под которым RequestContext лежит в echo.Context
const RequestContextKey = "request_context"

type DeviceProvider interface {
	DeviceByToken(ctx context.Context, token string) (models.Device, error)
}

// DeviceContext резолвит заголовок Token в устройство и кладет
// translation.RequestContext в контекст запроса. Запрос без токена или
// с неизвестным токеном получает контекст WEB без языка (режим ALL).
// Заголовок Language перекрывает язык устройства.
func DeviceContext(log *slog.Logger, devices DeviceProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rctx := translation.RequestContext{DeviceType: models.DeviceTypeWeb}

			if token := c.Request().Header.Get("Token"); token != "" {
				device, err := devices.DeviceByToken(c.Request().Context(), token)
				if err != nil {
					log.Warn("unknown device token", sl.Err(err))
				} else {
					rctx.DeviceType = device.DeviceType
					rctx.Language = string(device.Language)
				}
			}

			if lang := c.Request().Header.Get("Language"); lang != "" {
				rctx.Language = lang
			}

			c.Set(RequestContextKey, rctx)

			return next(c)
		}
	}
}

// GetRequestContext достает RequestContext; отсутствие означает WEB/ALL
func GetRequestContext(c echo.Context) translation.RequestContext {
	if rctx, ok := c.Get(RequestContextKey).(translation.RequestContext); ok {
		return rctx
	}
	return translation.RequestContext{DeviceType: models.DeviceTypeWeb}
}
