package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tomkidron/DigitalFootprintInvestigator/internal/handler"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/middleware"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/repository"
	"github.com/tomkidron/DigitalFootprintInvestigator/internal/service"
)

// Server is the HTTP surface of the investigator. Investigations submitted
// through it run in the background and are polled by id.
type Server struct {
	router  *gin.Engine
	httpSrv *http.Server
	logger  *zap.Logger
}

func NewServer(db *sqlx.DB, runner handler.InvestigationRunner, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router: router,
		logger: logger,
	}
	s.setupRoutes(db, runner)
	return s
}

func (s *Server) setupRoutes(db *sqlx.DB, runner handler.InvestigationRunner) {
	authRepo := repository.NewAuthRepository(db, s.logger)
	authService := service.NewAuthService(authRepo, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)

	invRepo := repository.NewInvestigationRepository(db, s.logger)
	invHandler := handler.NewInvestigationHandler(invRepo, runner, s.logger)

	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(s.logger))
	{
		authRequired.POST("/investigations", invHandler.Create)
		authRequired.GET("/investigations", invHandler.List)
		authRequired.GET("/investigations/:id", invHandler.GetByID)
	}
}

// Run starts serving and blocks until the listener fails or Shutdown is
// called.
func (s *Server) Run(addr string) error {
	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	s.logger.Info("Server starting", zap.String("addr", addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}
