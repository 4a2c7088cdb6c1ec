package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storyshare-backend/internal/cache"
	"storyshare-backend/internal/config"
	"storyshare-backend/internal/handlers"
	"storyshare-backend/internal/middleware"
	"storyshare-backend/internal/monitoring"
	"storyshare-backend/internal/repository"
	"storyshare-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	if err := repository.ApplySchema(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	// Discovery feed cache (optional)
	var discoverCache services.DiscoverCache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("Failed to ping redis")
		}
		defer redisClient.Close()
		discoverCache = cache.NewDiscoverCache(redisClient, time.Duration(cfg.Redis.TTL)*time.Second)
		log.Info().Msg("Redis connection established")
	}

	// Push notifier (optional)
	var notifier services.PushSender
	if cfg.APNs.CertFile != "" {
		n, err := services.NewNotifier(cfg.APNs.CertFile, cfg.APNs.CertPass, cfg.APNs.Topic, cfg.APNs.Production)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create notifier")
		}
		notifier = n
	} else {
		log.Warn().Msg("APNs not configured, push notifications disabled")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)

	// Initialize services
	hub := services.NewEventsHub()
	userService := services.NewUserService(userRepo, postRepo, cfg.JWT.Secret)
	relationshipService := services.NewRelationshipService(userRepo, followRepo, notifier, hub)
	engagementService := services.NewEngagementService(postRepo, userRepo, hub)
	feedService := services.NewFeedService(userRepo, followRepo, postRepo, discoverCache)
	postService := services.NewPostService(postRepo, userRepo)
	mediaService, err := services.NewMediaService(
		cfg.AWS.Region,
		cfg.AWS.S3Bucket,
		cfg.AWS.AccessKey,
		cfg.AWS.SecretKey,
		cfg.AWS.Endpoint,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create media service")
	}

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	relationshipHandler := handlers.NewRelationshipHandler(relationshipService)
	engagementHandler := handlers.NewEngagementHandler(engagementService)
	feedHandler := handlers.NewFeedHandler(feedService)
	postHandler := handlers.NewPostHandler(postService)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	wsHandler := handlers.NewWebSocketHandler(hub, userService)

	// Metrics
	monitoring.Register()

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(monitoring.Middleware)

	// Routes
	r.Post("/register", userHandler.Register)
	r.Post("/login", userHandler.Login)
	r.Get("/userInfo/{id}", userHandler.UserInfo)
	r.Get("/searchUsers", userHandler.SearchUsers)
	r.Patch("/updatePfp/{userId}", userHandler.UpdatePfp)
	r.Patch("/updateBio/{userId}", userHandler.UpdateBio)

	r.Post("/follow", relationshipHandler.Follow)
	r.Post("/unfollow", relationshipHandler.Unfollow)
	r.Get("/following/{userId}", relationshipHandler.Following)
	r.Get("/followers/{userId}", relationshipHandler.Followers)

	r.Post("/likePost", engagementHandler.LikePost)
	r.Post("/removeLike", engagementHandler.RemoveLike)
	r.Get("/hasLikedPost", engagementHandler.HasLikedPost)
	r.Post("/comment", engagementHandler.Comment)
	r.Post("/removeComment", engagementHandler.RemoveComment)
	r.Get("/comments/{postId}", engagementHandler.Comments)

	r.Post("/addPost", postHandler.AddPost)
	r.Get("/post/{postId}", postHandler.GetPost)
	r.Get("/user/{userId}/posts", postHandler.UserPosts)
	r.Get("/searchPosts", postHandler.SearchPosts)

	r.Get("/feed", feedHandler.Feed)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(userService))
		r.Get("/getUserInfo", userHandler.GetUserInfo)
		r.Post("/uploads", mediaHandler.Upload)
		r.Patch("/pushToken", userHandler.UpdatePushToken)
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
