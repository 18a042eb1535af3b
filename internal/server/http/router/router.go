package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/craftmarket/internal/domain/model"
	"github.com/polkiloo/craftmarket/internal/server/http/dto"
	"github.com/polkiloo/craftmarket/internal/server/http/handlers"
	"github.com/polkiloo/craftmarket/internal/server/http/middleware"
)

const healthTimeout = 2 * time.Second

// HealthChecker reports whether backing services are reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type setupParams struct {
	fx.In

	Facade handlers.CommerceFacade
	Health HealthChecker `optional:"true"`
	Logger *slog.Logger
}

func newRouter(p setupParams) (*gin.Engine, error) {
	return Setup(p.Facade, p.Health, p.Logger)
}

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CommerceFacade, health HealthChecker, logger *slog.Logger) (*gin.Engine, error) {
	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	artistHandler := handlers.NewArtistHandler(facade)

	engine.GET("/healthz", healthHandler(health))

	api := engine.Group("/api")
	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)
	authed.PUT("/user/profile", authHandler.UpdateProfile)

	customer := middleware.RequireRole(model.RoleCustomer)
	orders := authed.Group("/orders")
	orders.POST("", customer, orderHandler.Checkout)
	orders.GET("", customer, orderHandler.List)
	orders.GET("/:orderID", orderHandler.Get)
	orders.POST("/:orderID/cancel", middleware.RequireRole(model.RoleCustomer, model.RoleAdmin), orderHandler.Cancel)
	orders.PATCH("/:orderID/items/:itemID", middleware.RequireRole(model.RoleArtist, model.RoleAdmin), orderHandler.TransitionItem)

	artist := authed.Group("/artist")
	artist.Use(middleware.RequireRole(model.RoleArtist))
	artist.GET("/orders", orderHandler.ArtistOrders)
	artist.GET("/stats", artistHandler.OwnStats)

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.GET("/orders", orderHandler.AllOrders)
	admin.GET("/artists", artistHandler.List)
	admin.PATCH("/artists/:artistID/status", artistHandler.TransitionStatus)
	admin.PUT("/artists/:artistID/commission", artistHandler.SetCommission)
	admin.GET("/artists/:artistID/stats", artistHandler.Stats)
	admin.PUT("/products/:productID/listing", artistHandler.ListProduct)

	return engine, nil
}

func healthHandler(health HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if health == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := health.HealthCheck(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
