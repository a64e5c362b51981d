package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sashabaranov/go-openai"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/karripar/va-backend-sub000/internal/ai"
	"github.com/karripar/va-backend-sub000/internal/config"
	"github.com/karripar/va-backend-sub000/internal/directory"
	"github.com/karripar/va-backend-sub000/internal/fetch"
	"github.com/karripar/va-backend-sub000/internal/httpserver"
	"github.com/karripar/va-backend-sub000/internal/httpserver/deps"
	"github.com/karripar/va-backend-sub000/internal/logger"
	"github.com/karripar/va-backend-sub000/internal/redis"
	"github.com/karripar/va-backend-sub000/internal/scheduler"
	"github.com/karripar/va-backend-sub000/internal/scrape"
	"github.com/karripar/va-backend-sub000/internal/sources/geodata"
	"github.com/karripar/va-backend-sub000/internal/store/mongo"
	"github.com/karripar/va-backend-sub000/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	mongoClient *gomongo.Client
	redisClient *goredis.Client
	refresher   *scheduler.Refresher
	sweeper     *scheduler.Sweeper
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize MongoDB early - fail fast if unavailable
	mongoClient, err := mongo.Connect(mongo.ConnectOptions{
		URI:            cfg.MongoURI,
		Database:       cfg.MongoDatabase,
		ConnectTimeout: cfg.MongoConnectTimeout,
		PingTimeout:    cfg.MongoPingTimeout,
		RetryInterval:  cfg.MongoRetryInterval,
		MaxWait:        cfg.MongoMaxWait,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to MongoDB: %v", err)
		os.Exit(1)
	}

	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	// Load the country dictionaries and coordinates. Without them no
	// record can be placed on the map, so a broken file is fatal.
	geoFile, err := geodata.NewLoader(cfg.GeodataFile).Load()
	if err != nil {
		loggerClient.Errorf("Failed to load geodata: %v", err)
		os.Exit(1)
	}
	resolver := geodata.NewMapper().MapResolver(geoFile)
	loggerClient.Info("geodata loaded", logger.String("file", cfg.GeodataFile))

	db := mongoClient.Database(cfg.MongoDatabase)
	cacheStore := mongo.NewCacheStore(db)
	sourceStore := mongo.NewSourceStore(db)

	fetcher := fetch.NewClient(&http.Client{Timeout: cfg.FetchTimeout})
	extractor := ai.NewExtractor(openai.NewClient(cfg.OpenAIKey), cfg.OpenAIModel)

	builder := directory.NewBuilder(
		cacheStore,
		sourceStore,
		fetcher,
		scrape.NewAccordionExtractor(extractor, resolver),
		scrape.NewTableExtractor(resolver),
		loggerClient,
	)

	// Create manual refresh trigger channel
	refreshTrigger := make(chan struct{}, 1)

	refresher := scheduler.NewRefresher(
		sourceStore,
		cacheStore,
		builder,
		loggerClient,
		cfg.RefreshInterval,
		refreshTrigger,
	)

	sweeper := scheduler.NewSweeper(
		cacheStore,
		sourceStore,
		loggerClient,
		cfg.SweepInterval,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		TimeNow:           time.Now,
		Builder:           builder,
		Sources:           sourceStore,
		ReadyCheck:        func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
		RedisClient:       redisClient,
		AdminCIDRS:        cfg.AdminCIDRS,
		AdminHosts:        cfg.AdminHosts,
		TrustProxy:        cfg.TrustProxy,
		RefreshTrigger:    refreshTrigger,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		mongoClient: mongoClient,
		redisClient: redisClient,
		refresher:   refresher,
		sweeper:     sweeper,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting destinations service v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("destinations %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the refresher (initial walk plus periodic refresh)
	if err := a.refresher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start refresher: %w", err)
	}
	a.logger.Info("refresher started",
		logger.Duration("interval", a.cfg.RefreshInterval))

	// Start the orphaned-cache sweeper
	if err := a.sweeper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start sweeper: %w", err)
	}
	a.logger.Info("sweeper started",
		logger.Duration("interval", a.cfg.SweepInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.refresher.Stop()
	a.sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
		a.logger.Warnf("failed to close mongodb: %v", err)
	} else {
		a.logger.Info("✅ MongoDB closed cleanly")
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ destinations service stopped cleanly")
	return nil
}
