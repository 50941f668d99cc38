package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nycarrests/internal/cache"
	"nycarrests/internal/config"
	"nycarrests/internal/database"
	"nycarrests/internal/handler"
	"nycarrests/internal/queue"
	"nycarrests/internal/redis"
	"nycarrests/internal/repository"
	"nycarrests/internal/service"
	"nycarrests/internal/worker"
)

// Run wires the whole application together and serves until SIGINT/SIGTERM.
func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db := database.New(cfg)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.Ping(pingCtx); err != nil {
		cancelPing()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	cancelPing()
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		db.Close(closeCtx)
	}()

	// 3. Connect to Redis. The cache and the cleanup stream are optional:
	// without Redis the app still serves, stats are computed per request and
	// comment cleanup runs inline.
	var (
		statsCache cache.StatsCache
		publisher  queue.Publisher
		consumer   queue.Consumer
	)
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		redisCtx, cancelRedis := context.WithTimeout(context.Background(), 5*time.Second)
		err = redisClient.Ping(redisCtx)
		cancelRedis()
		if err != nil {
			log.Printf("[Server] Redis unreachable, running without cache and cleanup stream: %v", err)
		} else {
			defer redisClient.Close()
			statsCache = cache.NewStatsCache(redisClient.Client, time.Duration(cfg.StatsCacheTTL)*time.Second)
			publisher = queue.NewPublisher(redisClient.Client)
			consumer = queue.NewConsumer(redisClient.Client)
		}
	} else {
		log.Println("[Server] REDIS_URL not set, running without cache and cleanup stream")
	}

	// 4. Repositories
	arrestRepo := repository.NewArrestRepository(db)
	userRepo := repository.NewUserRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// 5. Services
	userService := service.NewUserService(userRepo)
	commentService := service.NewCommentService(commentRepo, userRepo)
	arrestService := service.NewArrestService(arrestRepo, commentService, statsCache, publisher)
	statsService := service.NewStatsService(arrestRepo, statsCache)
	trendsService := service.NewTrendsService(arrestRepo)
	authService := service.NewAuthService(cfg)

	// 6. Handlers + Router
	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, authService),
		ArrestHandler:  handler.NewArrestHandler(arrestService),
		StatsHandler:   handler.NewStatsHandler(statsService, trendsService),
		CommentHandler: handler.NewCommentHandler(commentService),
		UserHandler:    handler.NewUserHandler(userService, arrestService),
		JWTSecret:      cfg.JWTSecret,
	})

	// 7. Cleanup workers (only when the stream is available)
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	var manager *worker.Manager
	if consumer != nil {
		manager = worker.NewManager(consumer, worker.NewHandler(commentService), worker.ManagerConfig{
			WorkerCount: cfg.WorkerCount,
		})
		if err := manager.Start(workerCtx); err != nil {
			return fmt.Errorf("failed to start cleanup workers: %w", err)
		}
	}

	// 8. HTTP server with graceful shutdown
	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Printf("[Server] Received %s, shutting down", sig)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if manager != nil {
		cancelWorkers()
		manager.Stop()
	}

	log.Println("[Server] Shutdown complete")
	return nil
}
