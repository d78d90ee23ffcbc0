package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/princekumarofficial/expressions-service/docs"
	"github.com/princekumarofficial/expressions-service/internal/cache"
	"github.com/princekumarofficial/expressions-service/internal/config"
	"github.com/princekumarofficial/expressions-service/internal/events"
	userHandlers "github.com/princekumarofficial/expressions-service/internal/http/handlers/users"
	videoHandlers "github.com/princekumarofficial/expressions-service/internal/http/handlers/videos"
	wsHandlers "github.com/princekumarofficial/expressions-service/internal/http/handlers/websocket"
	"github.com/princekumarofficial/expressions-service/internal/http/middleware"
	"github.com/princekumarofficial/expressions-service/internal/logger"
	"github.com/princekumarofficial/expressions-service/internal/services/media"
	"github.com/princekumarofficial/expressions-service/internal/services/videos"
	"github.com/princekumarofficial/expressions-service/internal/storage"
	"github.com/princekumarofficial/expressions-service/internal/storage/memory"
	"github.com/princekumarofficial/expressions-service/internal/storage/mongodb"
	"github.com/princekumarofficial/expressions-service/internal/storage/postgres"
	"github.com/princekumarofficial/expressions-service/internal/utils/response"
	"github.com/princekumarofficial/expressions-service/internal/websocket"
)

// @title Expressions Service API
// @version 1.0
// @description Stores short video clips tagged with an emotional expression.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// optional .env, real environment wins
	_ = godotenv.Load()

	// load config
	cfg := config.MustLoad()

	slog.SetDefault(logger.New(cfg.Log.Level, cfg.Log.Format))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// metadata store
	store, err := newStorage(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize metadata store: ", err)
	}
	slog.Info("Metadata store ready", slog.String("driver", cfg.Metadata.Driver))

	// blob store
	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize blob store: ", err)
	}
	slog.Info("Blob store ready", slog.String("driver", cfg.Blob.Driver))

	// redis is optional
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to Redis: ", err)
		}
		slog.Info("Connected to Redis", slog.String("address", cfg.Redis.Address))
	}

	// websocket hub
	hub := websocket.NewHub()
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	var videoStore storage.VideoStore = store
	if redisClient != nil {
		videoStore = cache.NewVideoCache(store, redisClient)
	}

	service := videos.NewService(videoStore, blobs,
		videos.WithFolderPrefix(cfg.Blob.FolderPrefix),
		videos.WithReconcileConcurrency(cfg.Upload.ReconcileConcurrency),
		videos.WithPublisher(events.NewEventPublisher(hub)),
		videos.WithLogger(slog.Default()),
	)
	vh := videoHandlers.NewVideoHandlers(service, cfg.Upload)

	// setup router
	router := http.NewServeMux()
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)
	requireAuth := middleware.AuthMiddleware(cfg.JWTSecret)

	var uploadHandler http.Handler = vh.Upload()
	var deleteHandler http.Handler = vh.Delete()
	if redisClient != nil {
		limits := middleware.NewRateLimitConfig(redisClient)
		uploadHandler = limits.RateLimitedHandler(middleware.ActionUpload, uploadHandler)
		deleteHandler = limits.RateLimitedHandler(middleware.ActionDelete, deleteHandler)
	}

	router.HandleFunc("GET /{$}", vh.ListAll())
	router.HandleFunc("GET /expressions", vh.ListCategories())
	router.HandleFunc("GET /expressions/{category}", vh.ListByCategory())
	router.Handle("POST /upload", optionalAuth(uploadHandler))
	router.Handle("DELETE /{id}", optionalAuth(deleteHandler))

	router.HandleFunc("POST /signup", userHandlers.SignUp(store))
	router.HandleFunc("POST /login", userHandlers.Login(store, cfg.JWTSecret))
	router.HandleFunc("GET /users/{user_id}", userHandlers.GetProfile(store))
	router.HandleFunc("GET /users/{user_id}/videos", vh.ListByUploader())

	router.HandleFunc("GET /ws", wsHandlers.WebSocketHandler(hub))

	if redisClient != nil {
		router.Handle("GET /admin/cache", requireAuth(cache.GetCacheStats(redisClient)))
		router.Handle("DELETE /admin/cache", requireAuth(cache.ClearCache(redisClient)))
	}

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.RequestOK("ok", map[string]int{
			"websocket_clients": hub.GetClientCount(),
		}))
	})
	router.Handle("GET /swagger/", httpSwagger.WrapHandler)

	server := http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	slog.Info("server started", slog.String("address", cfg.HTTPServer.Address))

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-ctx.Done()

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
	}

	stopHub()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slog.Error("failed to close redis client", slog.String("error", err.Error()))
		}
	}

	if err := store.Close(shutdownCtx); err != nil {
		slog.Error("failed to close metadata store", slog.String("error", err.Error()))
	}

	slog.Info("Server stopped")
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Metadata.Driver {
	case "postgres":
		return postgres.NewPostgres(ctx, cfg.PGSQL)
	case "mongo":
		return mongodb.NewMongo(ctx, cfg.Mongo)
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported metadata driver %q", cfg.Metadata.Driver)
	}
}

func newBlobStore(ctx context.Context, cfg *config.Config) (media.Store, error) {
	switch cfg.Blob.Driver {
	case "minio":
		return media.NewMinIOStore(ctx, cfg.MinIO)
	case "s3":
		return media.NewS3Store(ctx, cfg.S3)
	case "memory":
		return media.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported blob driver %q", cfg.Blob.Driver)
	}
}
