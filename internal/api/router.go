package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/photonworks/facility-scheduler-backend/internal/auth"
	"github.com/photonworks/facility-scheduler-backend/internal/equipment"
	"github.com/photonworks/facility-scheduler-backend/internal/instrument"
	"github.com/photonworks/facility-scheduler-backend/internal/metrics"
	"github.com/photonworks/facility-scheduler-backend/internal/scheduledevent"
	seHttp "github.com/photonworks/facility-scheduler-backend/internal/scheduledevent/http"
	"github.com/photonworks/facility-scheduler-backend/internal/user"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	UserService    user.Service
	EventService   scheduledevent.Service
	InstrumentRepo instrument.Repository
	EquipmentRepo  equipment.Repository
	JWTManager     *auth.JWTManager
}

// NewRouter assembles middleware (CORS, logging, recovery, auth) and registers
// the module routes.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	metrics.Register()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	authHandler := NewAuthHandler(cfg.UserService, cfg.JWTManager)
	userHandler := NewUserHandler(cfg.UserService)
	instrumentHandler := NewInstrumentHandler(cfg.InstrumentRepo)
	eventHandler := seHttp.NewHandler(cfg.EventService, cfg.EquipmentRepo)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/login", authHandler.Login)

		users := v1.Group("/users")
		users.Use(authMiddleware)
		{
			users.GET("/me", userHandler.Me)
		}

		instruments := v1.Group("/instruments")
		instruments.Use(authMiddleware)
		{
			instruments.GET("", instrumentHandler.List)
			instruments.GET("/:id", instrumentHandler.Get)
		}

		seHttp.RegisterRoutes(v1, eventHandler, authMiddleware)
	}

	return r
}
