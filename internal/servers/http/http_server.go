package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"xelaConnect/internal/handlers"
)

type HttpServer struct {
	address       string
	jwtKey        []byte
	router        *gin.Engine
	restHandler   *handlers.RestHandler
	socketHandler *handlers.SocketHandler
	logger        zerolog.Logger
}

func NewHttpServer(
	address string,
	jwtKey []byte,
	restHandler *handlers.RestHandler,
	socketHandler *handlers.SocketHandler,
	logger zerolog.Logger,
) *HttpServer {
	hs := &HttpServer{
		address:       address,
		jwtKey:        jwtKey,
		restHandler:   restHandler,
		socketHandler: socketHandler,
		logger:        logger,
	}
	hs.initializeGin()
	hs.setupRoutes()
	return hs
}

// Router exposes the engine, mainly for httptest.
func (hs *HttpServer) Router() *gin.Engine {
	return hs.router
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (hs *HttpServer) Run(ctx context.Context) error {
	if err := hs.socketHandler.StartSocket(ctx); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              hs.address,
		Handler:           hs.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		hs.logger.Info().Str("address", hs.address).Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	return hs.shutdown(server)
}

func (hs *HttpServer) initializeGin() {
	hs.router = gin.New()
	hs.router.Use(gin.Recovery(), requestLogger(hs.logger), handlers.RequestMetricsMiddleware())
}

func (hs *HttpServer) setupRoutes() {
	hs.router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	hs.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := hs.router.Group("/api")
	api.POST("/auth/login", hs.restHandler.Login)

	messaging := api.Group("/messaging", handlers.MustAuthenticateMiddleware(hs.jwtKey))
	messaging.GET("/conversations/:partnerId", hs.restHandler.GetConversation)
	messaging.POST("/conversations/:partnerId/messages", hs.restHandler.SendMessage)

	hs.router.GET("/ws/messaging", handlers.MustAuthenticateMiddleware(hs.jwtKey), hs.socketHandler.HandleSocketRoute)
}

func (hs *HttpServer) shutdown(server *http.Server) error {
	hs.logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown
	hs.socketHandler.CloseAll()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	hs.logger.Info().Msg("server exiting")
	return nil
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		logger.Debug().
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Int("status", ctx.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
