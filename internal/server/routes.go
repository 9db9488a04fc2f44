package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openmined/statusapi/internal/server/handlers/api"
	"github.com/openmined/statusapi/internal/server/handlers/health"
	"github.com/openmined/statusapi/internal/server/handlers/info"
	"github.com/openmined/statusapi/internal/server/handlers/status"
	"github.com/openmined/statusapi/internal/server/middlewares"
)

func SetupRoutes(config *Config, svc *Services) (http.Handler, error) {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	healthH := health.New(svc.Status)
	statusH := status.New(svc.Status)
	infoH := info.New(config.App.Version, config.App.Environment)

	r.Use(middlewares.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		api.AbortWithDetail(c, http.StatusInternalServerError, api.DetailInternalError, nil)
	}))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.GZIP())
	r.Use(middlewares.CORS())

	if config.HTTP.RateLimit != "" {
		limiter, err := middlewares.RateLimiter(config.HTTP.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		r.Use(limiter)
	}

	r.GET("/health", healthH.Health)
	r.GET("/info", infoH.Info)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/get-status", statusH.GetStatus)
		v1.POST("/set-status", statusH.SetStatus)
	}

	r.NoRoute(func(c *gin.Context) {
		api.AbortWithDetail(c, http.StatusNotFound, api.DetailNotFound, nil)
	})

	r.NoMethod(func(c *gin.Context) {
		api.AbortWithDetail(c, http.StatusMethodNotAllowed, api.DetailMethodNotAllowed, nil)
	})

	return r.Handler(), nil
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
