package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/sugarpoints/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))
	{
		api.POST("/score", handler.Score)
		api.POST("/classify", handler.Classify)
		api.GET("/quiz/questions", handler.QuizQuestions)
		api.POST("/quiz/evaluate", handler.EvaluateQuiz)
	}

	users := api.Group("/users/:userID")
	users.Use(userScope())
	{
		users.POST("/entries", handler.LogEntry)
		users.GET("/entries", handler.ListEntries)
		users.GET("/entries/:entryID", handler.GetEntry)
		users.PUT("/entries/:entryID", handler.UpdateEntry)
		users.DELETE("/entries/:entryID", handler.DeleteEntry)
		users.GET("/days/:date", handler.Day)
		users.GET("/progress", handler.Progress)

		users.GET("/profile", handler.Profile)
		users.PUT("/profile/target", handler.SetTarget)
		users.DELETE("/profile/target", handler.ClearTarget)

		users.POST("/quiz", handler.StartQuiz)
		users.GET("/quiz/:sessionID", handler.QuizState)
		users.PUT("/quiz/:sessionID/answers/:questionID", handler.AnswerQuiz)
		users.POST("/quiz/:sessionID/submit", handler.SubmitQuiz)

		users.POST("/coach", handler.Coach)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
