package router

import (
	"time"

	"fatigue-go/internal/handlers"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again later.")
}

func Setup(
	log *zap.Logger,
	telemetry *handlers.TelemetryHandler,
	analysis *handlers.AnalysisHandler,
	recommendation *handlers.RecommendationHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	// Ingest is the high-frequency endpoint; everything else is occasional.
	ingestStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: 200,
	})
	ingestLimiter := ratelimit.RateLimiter(ingestStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")
	{
		api.POST("/session/start", telemetry.StartSession)
		api.POST("/session/stop", telemetry.StopSession)
		api.POST("/events", ingestLimiter, telemetry.SubmitEvent)
		api.GET("/metrics/current", telemetry.CurrentMetrics)

		api.POST("/analyze", analysis.Analyze)
		api.GET("/analyses", analysis.History)

		api.GET("/recommendation", recommendation.Get)
		api.POST("/feedback", recommendation.Feedback)
	}

	return router
}
