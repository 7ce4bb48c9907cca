package echo

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	app "github.com/mohammadpnp/field-productivity/internal/application/productivity"
)

const (
	HeaderUserID      = "X-User-ID"
	HeaderUserRole    = "X-User-Role"
	HeaderInstallerID = "X-Installer-ID"
)

// CallerIdentity places the caller announced by the gateway headers into the
// request context. Requests without a valid identity are rejected.
func CallerIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			userID := strings.TrimSpace(req.Header.Get(HeaderUserID))
			role, ok := app.ParseRole(req.Header.Get(HeaderUserRole))
			if userID == "" || !ok {
				return c.JSON(http.StatusUnauthorized, apiResponse{Error: &errorBody{
					Code:    "unauthenticated",
					Message: "caller identity headers are missing or invalid",
				}})
			}

			caller := app.Caller{
				UserID:      userID,
				Role:        role,
				InstallerID: strings.TrimSpace(req.Header.Get(HeaderInstallerID)),
			}
			c.SetRequest(req.WithContext(app.WithCaller(req.Context(), caller)))
			return next(c)
		}
	}
}

// RequestLogger writes one access log line per request.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Error("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

type requestObserver interface {
	Observe(method, route string, status int, elapsed time.Duration)
}

// RequestMetrics records latency per matched route.
func RequestMetrics(observer requestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			observer.Observe(c.Request().Method, route, status, time.Since(start))
			return err
		}
	}
}
