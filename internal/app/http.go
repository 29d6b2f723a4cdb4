package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/avelinsk/daydo/internal/config"
	v1 "github.com/avelinsk/daydo/internal/delivery/http/v1"
	"github.com/avelinsk/daydo/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	cfg := config.Global()

	hasher := services.NewPasswordHasher(
		cfg.Argon2.MemoryKiB,
		cfg.Argon2.Iterations,
		cfg.Argon2.Parallelism,
	)
	tokens := services.NewTokenService(cfg.JWT.Issuer, []byte(cfg.JWT.SigningKey))
	users := services.NewUserService(globalLogger, globalPostgresPool)
	auth := services.NewAuthService(globalLogger, users, hasher, tokens, cfg.JWT.AccessTokenTTL)
	todos := services.NewTodoService(globalLogger, globalPostgresPool)
	notes := services.NewNoteService(globalLogger, globalPostgresPool)

	v1Handler := v1.New(globalLogger, auth, todos, notes)
	router = router.Group("/api/v1")

	authRouter := router.Group("/auth")
	authRouter.POST("/register", v1Handler.HandleRegister)
	authRouter.POST("/login", v1Handler.HandleLogin)
	authRouter.GET("/me", v1Handler.HandleAuthMiddleware, v1Handler.HandleMe)
	authRouter.PUT("/profile", v1Handler.HandleAuthMiddleware, v1Handler.HandleUpdateProfile)
	authRouter.PUT("/change-password", v1Handler.HandleAuthMiddleware, v1Handler.HandleChangePassword)

	todosRouter := router.Group("/todos", v1Handler.HandleAuthMiddleware)
	todosRouter.GET("", v1Handler.HandleListTodos)
	todosRouter.POST("", v1Handler.HandleCreateTodo)
	todosRouter.DELETE("/completed/clear", v1Handler.HandleClearCompletedTodos)
	todosRouter.GET("/:id", v1Handler.HandleGetTodo)
	todosRouter.PUT("/:id", v1Handler.HandleUpdateTodo)
	todosRouter.DELETE("/:id", v1Handler.HandleDeleteTodo)

	notesRouter := router.Group("/notes", v1Handler.HandleAuthMiddleware)
	notesRouter.GET("", v1Handler.HandleListNotes)
	notesRouter.POST("", v1Handler.HandleCreateNote)
	notesRouter.GET("/:id", v1Handler.HandleGetNote)
	notesRouter.PUT("/:id", v1Handler.HandleUpdateNote)
	notesRouter.DELETE("/:id", v1Handler.HandleDeleteNote)
}
