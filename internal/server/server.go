package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nik9hil/SELLX/internal/auth"
	"github.com/nik9hil/SELLX/internal/config"
	"github.com/nik9hil/SELLX/internal/handler"
	appmw "github.com/nik9hil/SELLX/internal/middleware"
	"github.com/nik9hil/SELLX/internal/repository"
	"github.com/nik9hil/SELLX/internal/service"
	"github.com/nik9hil/SELLX/internal/storage"
	"gorm.io/gorm"
)

type Server struct {
	e *echo.Echo
}

func New(db *gorm.DB, cfg *config.Config) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			return false, nil
		},
	}))

	images, err := storage.NewImageStore(cfg.MediaDir)
	if err != nil {
		return nil, err
	}
	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	authSvc := service.NewAuthService(userRepo)
	listingSvc := service.NewListingService(listingRepo, images)
	paymentSvc := service.NewPaymentService(paymentRepo, listingRepo)
	profileSvc := service.NewProfileService(userRepo, listingRepo, paymentRepo)

	authHandler := handler.NewAuthHandler(authSvc, tokens)
	listingHandler := handler.NewListingHandler(listingSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)

	authMw := appmw.NewAuthMiddleware(tokens)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})
	e.Static("/media", cfg.MediaDir)

	api := e.Group("/api")
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout, authMw.RequireAuth)

	api.GET("/categories", listingHandler.Categories, authMw.OptionalAuth)
	api.GET("/listings", listingHandler.List, authMw.OptionalAuth)
	api.GET("/listings/:id", listingHandler.Get)
	api.POST("/listings", listingHandler.Create, authMw.RequireAuth)
	api.PUT("/listings/:id", listingHandler.Update, authMw.RequireAuth)
	api.DELETE("/listings/:id", listingHandler.Delete, authMw.RequireAuth)
	api.POST("/listings/:id/payment", paymentHandler.Pay, authMw.RequireAuth)
	api.GET("/listings/:id/payment", paymentHandler.GetByListing, authMw.RequireAuth)
	api.GET("/me/profile", profileHandler.Get, authMw.RequireAuth)

	return &Server{e: e}, nil
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Echo exposes the router for handler-level tests.
func (s *Server) Echo() *echo.Echo {
	return s.e
}
