package router

import (
	"fmt"

	"github.com/deeperweave/backend/internal/handlers"
	"github.com/deeperweave/backend/internal/middleware"
	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/internal/services"
	"github.com/deeperweave/backend/pkg/config"
	"github.com/deeperweave/backend/pkg/firebase"
	"github.com/deeperweave/backend/pkg/logging"
	"github.com/deeperweave/backend/pkg/tmdb"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
)

// Dependencies are the initialised external collaborators routes are built on.
// Firebase may be nil when no credentials are configured.
type Dependencies struct {
	Config   *config.Config
	DB       *config.DB
	Firebase *firebase.App
	TMDB     *tmdb.Client
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Metrics())
	e.Use(eMiddleware.CORS())
	logging.Info().Msg("Global middleware configured")
}

// SetupRoutes migrates the relational schema, wires repositories and services
// and registers every route.
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	pgdb := deps.DB.Postgres
	err := pgdb.AutoMigrate(
		&models.Profile{},
		&models.Follow{},
		&models.Notification{},
		&models.Movie{},
		&models.Series{},
		&models.List{},
		&models.ListEntry{},
		&models.TimelineEntry{},
		&models.ProfileSection{},
		&models.SectionItem{},
		&models.SavedItem{},
		&models.Like{},
		&models.Comment{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logging.Info().Msg("PostgreSQL auto-migrations completed")

	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	mongoDB := deps.DB.Mongo.Database(deps.Config.MongoDatabase)
	profileRepo := repositories.NewPostgresProfileRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	mediaRepo := repositories.NewPostgresMediaRepository(pgdb)
	listRepo := repositories.NewPostgresListRepository(pgdb)
	timelineRepo := repositories.NewPostgresTimelineRepository(pgdb)
	sectionRepo := repositories.NewPostgresSectionRepository(pgdb)
	savedRepo := repositories.NewPostgresSavedItemRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mongoDB)

	// --- Services ---
	loader := services.NewMediaLoader(mediaRepo)
	mediaCache := services.NewMediaCache(mediaRepo, deps.TMDB)
	notificationService := services.NewNotificationService(notificationRepo, followRepo, postRepo)
	socialService := services.NewSocialService(profileRepo, followRepo, notificationService)
	listService := services.NewListService(listRepo, loader, mediaCache)
	savedService := services.NewSavedService(savedRepo, loader, mediaCache)
	timelineService := services.NewTimelineService(timelineRepo, postRepo, loader, mediaCache)
	sectionService := services.NewSectionService(sectionRepo, loader, mediaCache)
	postService := services.NewPostService(postRepo, likeRepo, commentRepo, notificationService)

	var (
		verifier middleware.IDTokenVerifier
		uploader handlers.ObjectUploader
	)
	if deps.Firebase != nil {
		verifier = deps.Firebase.AuthClient
		if deps.Firebase.Storage != nil {
			uploader = deps.Firebase.Storage
		}
	}

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(profileRepo, verifier, deps.Config.JWTSecret).RegisterAuthRoutes(authGroup)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	if verifier != nil {
		api.Use(middleware.FirebaseAuthMiddleware(deps.Config.JWTSecret, verifier, profileRepo))
	} else {
		api.Use(middleware.JWTAuthMiddleware(deps.Config.JWTSecret))
	}

	handlers.NewProfileHandler(profileRepo, socialService, listService, timelineService, sectionService, uploader).RegisterProfileRoutes(api)
	handlers.NewFollowHandler(socialService).RegisterFollowRoutes(api)
	handlers.NewNotificationHandler(notificationService).RegisterNotificationRoutes(api)
	handlers.NewListHandler(listService).RegisterListRoutes(api)
	handlers.NewSavedHandler(savedService).RegisterSavedRoutes(api)
	handlers.NewTimelineHandler(timelineService, profileRepo, socialService).RegisterTimelineRoutes(api)
	handlers.NewSectionHandler(sectionService, profileRepo, socialService).RegisterSectionRoutes(api)
	handlers.NewMediaHandler(deps.TMDB).RegisterMediaRoutes(api)
	handlers.NewPostHandler(postService).RegisterPostRoutes(api)
	handlers.NewLikeHandler(postService).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(postService).RegisterCommentRoutes(api)

	logging.Info().Int("routes", len(e.Routes())).Msg("All routes configured")
	return nil
}
