package api

import (
	"log/slog"

	"fantasy_cricket/internal/api/handlers"
	"fantasy_cricket/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(handler *handlers.Handler, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Identity())

	handler.RegisterRoutes(r)

	return r
}
