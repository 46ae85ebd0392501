package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/lumipallolabs/sizescope/internal/core"
	"github.com/lumipallolabs/sizescope/internal/logging"
)

// NewServer creates an echo instance with middleware and the API routes
func NewServer(svc *core.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Output: logWriter{},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	NewHandler(svc).Register(e)
	return e
}

// logWriter forwards access logs to the API logger
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	return logging.API.Writer().Write(p)
}
