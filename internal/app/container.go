package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/photonworks/facility-scheduler-backend/internal/api"
	"github.com/photonworks/facility-scheduler-backend/internal/auth"
	"github.com/photonworks/facility-scheduler-backend/internal/equipment"
	"github.com/photonworks/facility-scheduler-backend/internal/instrument"
	"github.com/photonworks/facility-scheduler-backend/internal/permission"
	"github.com/photonworks/facility-scheduler-backend/internal/proposalbooking"
	"github.com/photonworks/facility-scheduler-backend/internal/scheduledevent"
	"github.com/photonworks/facility-scheduler-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	Logger       zerolog.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Domain backing stores
	instrumentRepo := instrument.NewPgxRepository(cfg.DBPool)
	bookingRepo := proposalbooking.NewPgxRepository(cfg.DBPool)
	equipmentRepo := equipment.NewPgxRepository(cfg.DBPool)

	// Permission checks feeding the query layer
	checker := permission.NewChecker(instrumentRepo, bookingRepo)

	// Scheduled-event module
	eventRepo := scheduledevent.NewPgxRepository(cfg.DBPool)
	eventService := scheduledevent.NewService(eventRepo, checker, cfg.Logger)

	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		UserService:    userService,
		EventService:   eventService,
		InstrumentRepo: instrumentRepo,
		EquipmentRepo:  equipmentRepo,
		JWTManager:     jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
