package router

import (
	"context"
	"net/http"

	"deadsignal/config"
	"deadsignal/internal/domain"
	"deadsignal/internal/handler"
	"deadsignal/internal/middleware"
	"deadsignal/internal/repository"
	"deadsignal/internal/service"
	"deadsignal/internal/ws"
	"deadsignal/pkg/sensor"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers. uploader may be nil when
// photo storage is not configured; the limiter sweeper stops with ctx.
func Setup(ctx context.Context, cfg *config.Config, db *gorm.DB, uploader service.PhotoUploader, rng sensor.Source) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger(); position updates arrive every second and drown the log

	limiter := middleware.NewInMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	go limiter.Run(ctx)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	locRepo := repository.NewLocationRepository(db)
	ghostRepo := repository.NewGhostRepository(db)
	huntRepo := repository.NewHuntRepository(db)
	evidenceRepo := repository.NewEvidenceRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	radarHub := ws.NewRadarHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	huntSvc := service.NewHuntService(cfg, huntRepo, ghostRepo, locRepo, evidenceRepo, userRepo, rng).
		WithRadar(radarHub)
	if uploader != nil {
		huntSvc.WithUploader(uploader)
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, auditRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, auditRepo)
	meHandler := handler.NewMeHandler(userRepo)
	locationHandler := handler.NewLocationHandler(huntSvc, locRepo)
	huntHandler := handler.NewHuntHandler(huntSvc)
	toolsHandler := handler.NewToolsHandler(cfg.Hunt.SignalRadius)
	adminHandler := handler.NewAdminHandler(ghostRepo, auditRepo)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Live radar (token in query)
	r.GET("/ws/radar", ws.UpgradeRadarWS(&cfg.JWT, radarHub, huntSvc, cfg.Hunt.RadarPushInterval))

	// Public groups are limited per client IP; authed routes per user, so the
	// limiter has to run after AuthRequired.
	rateLimit := middleware.RateLimit(limiter)
	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimit)
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		tools := api.Group("/tools")
		tools.Use(rateLimit)
		{
			tools.GET("", toolsHandler.List)
			tools.GET("/distance", toolsHandler.Distance)
			tools.GET("/emf", toolsHandler.EMF)
			tools.GET("/thermal", toolsHandler.Thermal)
			tools.GET("/camera", toolsHandler.Camera)
			tools.GET("/cone", toolsHandler.Cone)
			tools.GET("/spirit-box", toolsHandler.SpiritBox)
		}

		authed := api.Group("")
		authed.Use(middleware.AuthRequired(&cfg.JWT), rateLimit)
		{
			authed.GET("/me", meHandler.GetMe)
			authed.GET("/me/location", locationHandler.GetMyLocation)
			authed.PATCH("/me/location", locationHandler.UpdateLocation)

			authed.GET("/ghosts", huntHandler.Ghosts)
			authed.GET("/leaderboard", meHandler.Leaderboard)

			hunts := authed.Group("/hunts")
			{
				hunts.POST("", huntHandler.Start)
				hunts.GET("", huntHandler.History)
				hunts.GET("/active", huntHandler.Active)
				hunts.GET("/active/radar", huntHandler.Radar)
				hunts.POST("/active/end", huntHandler.End)
				hunts.POST("/active/photo", huntHandler.Photograph)
				hunts.POST("/active/spirit-box", huntHandler.SpiritBox)
				hunts.GET("/:id/evidence", huntHandler.Evidence)
			}

			admin := authed.Group("/admin")
			admin.Use(middleware.RequireRole(domain.RoleAdmin))
			{
				admin.GET("/ghosts", adminHandler.ListGhosts)
				admin.PATCH("/ghosts/:id", adminHandler.SetGhostActive)
			}
		}
	}

	return r
}
