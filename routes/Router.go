package routes

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"threadline/controllers"
	"threadline/engine"
	"threadline/middlewares"
)

// Options carries what the router needs beyond the engine.
type Options struct {
	SecretKey      string
	TokenTTL       time.Duration
	AllowedOrigins []string
}

// NewRouter wires middleware, controllers and every route.
func NewRouter(e *engine.Engine, opts Options, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middlewares.RequestID(), middlewares.Logger(logger))

	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	auth := middlewares.RequireAuth(e, opts.SecretKey, logger)

	api := router.Group("/api")
	UserRouter(api, controllers.NewUserController(e, opts.SecretKey, opts.TokenTTL, logger), auth)
	pc := controllers.NewPostController(e, logger)
	PostRouter(api, pc, auth)
	CommentRouter(api, controllers.NewCommentController(e, logger), auth)

	MediaRouter(router, pc)
	HomeRoutes(router)
	return router
}
