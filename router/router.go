// router/router.go

package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skyber-io/privacy-firewall/controller"
	"github.com/skyber-io/privacy-firewall/metrics"
	"github.com/skyber-io/privacy-firewall/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api/v1")

	controllers.Decision.RegisterRoutes(api)
	controllers.Audit.RegisterRoutes(api)
	controllers.Policy.RegisterRoutes(api)

	return router
}
