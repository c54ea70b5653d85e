package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ashconsole/internal/config"
	"github.com/polkiloo/ashconsole/internal/server/http/handlers"
	"github.com/polkiloo/ashconsole/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.ConsoleFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	if cfg.MaxUploadBytes > 0 {
		engine.MaxMultipartMemory = cfg.MaxUploadBytes
	}

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	if cors := middleware.CORS(cfg.CORSOrigins); cors != nil {
		engine.Use(cors)
	}
	engine.Use(middleware.DecompressRequest(cfg.MaxUploadBytes + 1<<20))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	quoteHandler := handlers.NewQuoteHandler(facade)
	authHandler := handlers.NewAuthHandler(facade)
	resetHandler := handlers.NewResetHandler(facade)
	boardHandler := handlers.NewBoardHandler(facade)

	engine.GET("/", quoteHandler.Catalog)
	quote := engine.Group("/GetQuote")
	quote.GET("", quoteHandler.Get)
	quote.PATCH("", quoteHandler.Edit)
	quote.POST("", quoteHandler.Submit)
	quote.DELETE("/banner", quoteHandler.DismissBanner)

	admin := engine.Group("/admin/ash")
	admin.GET("/login", authHandler.Session)
	admin.POST("/login", authHandler.Login)
	admin.POST("/logout", authHandler.Logout)
	admin.GET("/forgot-password", resetHandler.State)
	admin.POST("/forgot-password", resetHandler.Advance)

	guarded := admin.Group("/requests")
	guarded.Use(middleware.RequireSession(facade))
	guarded.GET("", boardHandler.List)
	guarded.POST("/refresh", boardHandler.Refresh)
	guarded.DELETE("/banner", boardHandler.DismissBanner)
	guarded.PATCH("/:id/status", boardHandler.ChangeStatus)

	return engine
}
