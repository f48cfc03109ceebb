package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/greenguardian/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		handler.logger.Error("invalid trusted proxies, forwarded headers ignored", "error", err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		errorHandlingMiddleware(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.GET("/location/detect", handler.DetectLocation)
		api.GET("/environment", handler.Environment)
		api.GET("/plants", handler.SearchPlants)
		api.GET("/plants/:id", handler.GetPlant)
		api.GET("/recommendations", handler.Recommend)
	}
	router.NoRoute(handler.NotFound)

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
