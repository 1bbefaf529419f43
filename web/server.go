package web

import (
	"context"
	"net/http"

	"transit-agent/config"
	"transit-agent/respond"
	"transit-agent/web/handlers"
	"transit-agent/web/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router    *gin.Engine
	responder *respond.Responder
	logger    *zap.Logger
	config    *config.Config
}

func NewServer(responder *respond.Responder, logger *zap.Logger, cfg *config.Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		router:    router,
		responder: responder,
		logger:    logger,
		config:    cfg,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	inquiryHandler := handlers.NewInquiryHandler(s.responder, s.logger)
	limiter := middleware.NewSessionRateLimiter(s.config.RateLimitInquiriesPerMin, s.config.RateLimitBurstSize, s.logger)

	s.router.GET("/health", inquiryHandler.Health)

	api := s.router.Group("/api")
	api.Use(limiter.Middleware())
	api.POST("/ask", inquiryHandler.Ask)
	api.POST("/rank", inquiryHandler.Rank)
}

func (s *Server) Start(ctx context.Context, addr string) error {
	s.logger.Info("Starting web server", zap.String("address", addr))

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Web server failed to start", zap.Error(err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	s.logger.Info("Shutting down web server")
	return srv.Shutdown(context.Background())
}
