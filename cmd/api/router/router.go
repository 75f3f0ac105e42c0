package router

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/vishalm342/ShelfSense/catalog"
	"github.com/vishalm342/ShelfSense/cmd/api/handlers"
	"github.com/vishalm342/ShelfSense/cmd/api/middleware"
	"github.com/vishalm342/ShelfSense/cmd/api/services"
	"github.com/vishalm342/ShelfSense/internal/logger"
	"github.com/vishalm342/ShelfSense/config"
	"github.com/vishalm342/ShelfSense/db"
	_ "github.com/vishalm342/ShelfSense/docs"
	"github.com/vishalm342/ShelfSense/eventbus"
	"github.com/vishalm342/ShelfSense/recommender"
	"github.com/vishalm342/ShelfSense/repositories"
)

func New() (*gin.Engine, error) {
	r := gin.Default()

	r.Use(corsMiddleware())
	r.Use(middleware.RequestTrace())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := db.Client().Ping(ctx, nil); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongodb": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	database := db.Database()
	users := repositories.NewUserRepository(database)
	entries := repositories.NewLibraryEntryRepository(database)
	aiLogs := repositories.NewAILogRepository(database)

	catalogClient := catalog.New()

	bus, err := eventbus.NewFromEnv()
	if err != nil {
		return nil, err
	}

	authSvc, err := services.NewAuthServiceFromEnv(users)
	if err != nil {
		return nil, err
	}
	bookSvc := services.NewBookService(catalogClient)
	librarySvc := services.NewLibraryService(entries, catalogClient, bus)

	recCfg := config.GetConfig().Recommender
	var candidates recommender.CandidateSource
	generator, err := recommender.NewGeminiGenerator()
	if err != nil {
		// The pipeline then serves the genre fallback for every request.
		logger.Log.Warnf("gemini generator unavailable, AI recommendations disabled: %v", err)
		candidates = recommender.NoCandidates{}
	} else {
		candidates = recommender.NewModelClient(generator, recCfg, aiLogs)
	}
	recSvc := services.NewRecommendationService(
		recommender.NewService(entries, catalogClient, candidates),
		bus,
	)

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.POST("/auth/register", handlers.RegisterHandler(authSvc))
		api.POST("/auth/login", handlers.LoginHandler(authSvc))

		api.GET("/books/search", handlers.SearchBooksHandler(bookSvc))
		api.GET("/books/:id", handlers.GetBookHandler(bookSvc))

		authed := api.Group("")
		authed.Use(middleware.UserAuthMiddleware(authSvc))
		{
			authed.GET("/auth/me", handlers.MeHandler(authSvc))

			authed.POST("/library", handlers.AddLibraryBookHandler(librarySvc))
			authed.GET("/library", handlers.ListLibraryHandler(librarySvc))
			authed.GET("/library/:id", handlers.GetLibraryEntryHandler(librarySvc))
			authed.PUT("/library/:id/status", handlers.UpdateLibraryStatusHandler(librarySvc))
			authed.DELETE("/library/:id", handlers.RemoveLibraryBookHandler(librarySvc))
			authed.POST("/library/import", handlers.ImportGoodreadsHandler(librarySvc))

			authed.GET("/recommendations", handlers.GetRecommendationsHandler(recSvc))
		}
	}

	return r, nil
}

// corsMiddleware adapts rs/cors to gin. Allowed origins come from
// CORS_ALLOWED_ORIGINS (comma separated); unset means allow all.
func corsMiddleware() gin.HandlerFunc {
	allowed := []string{"*"}
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		allowed = strings.Split(raw, ",")
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", headerRequestID},
		AllowCredentials: false,
		MaxAge:           300,
	})
	return func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)
		if ctx.Request.Method == http.MethodOptions &&
			ctx.Request.Header.Get("Access-Control-Request-Method") != "" {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}

const headerRequestID = "X-Request-Id"
