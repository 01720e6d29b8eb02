package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewRouter builds the echo instance and registers every route, per
// the teacher's flat e.GET/e.POST registration style.
func NewRouter(handler *ScheduleHandler) *echo.Echo {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/healthz", HealthCheck)
	e.POST("/solve", handler.Solve)
	e.GET("/solve/:request_id", handler.GetResult)
	e.GET("/solve/:request_id/calendar", handler.ExportCalendar)

	return e
}
