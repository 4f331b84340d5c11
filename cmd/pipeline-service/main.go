package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang-news-analyzer/internal/pipeline/config"
	"golang-news-analyzer/internal/pipeline/repository"
	"golang-news-analyzer/internal/pipeline/service"
	"golang-news-analyzer/pkg/logger"
	"golang-news-analyzer/pkg/postgres"
	"golang-news-analyzer/pkg/redis"
	"golang-news-analyzer/pkg/telegram"
	"golang-news-analyzer/pkg/utils"

	"google.golang.org/genai"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the news pipeline service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting News Pipeline Service", zap.String("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis (optional fingerprint pre-filter)
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisCfg := redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		}
		redisClient, err = redis.NewClient(redisCfg)
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		defer redisClient.Close()
	} else {
		appLogger.Warn("Redis not configured, fingerprint pre-filter disabled")
	}

	// Initialize repositories
	newsRepo := repository.NewNewsItemRepository(db.DB)
	summaryRepo := repository.NewNewsSummaryRepository(db.DB)

	// Initialize feed provider
	var feedRepo repository.NewsFeedRepository
	switch cfg.Feed.Provider {
	case "rss":
		feedRepo = repository.NewRSSNewsFeedRepository(cfg, appLogger)
	case "api":
		feedRepo = repository.NewAPINewsFeedRepository(cfg, appLogger)
	default:
		appLogger.Fatal("Invalid feed provider specified in config", zap.String("provider", cfg.Feed.Provider))
	}

	// Initialize AI provider
	var aiRepo repository.AIRepository
	switch cfg.AI.Provider {
	case "openai":
		aiRepo = repository.NewOpenAIRepository(cfg, appLogger)
	case "gemini":
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", zap.Error(err))
		}
		repo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI repository", zap.Error(err))
		}
		aiRepo = repo
	default:
		appLogger.Fatal("Invalid AI provider specified in config", zap.String("provider", cfg.AI.Provider))
	}

	// Initialize the optional Telegram digest notifier
	var telegramNotifier telegram.Notifier
	if cfg.Telegram.Enabled {
		telegramNotifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", zap.Error(err))
		}
	}

	// Initialize services
	ingestionSvc := service.NewIngestionService(feedRepo, newsRepo, redisClient, appLogger, cfg.Feed.PollInterval)
	enrichmentSvc := service.NewEnrichmentService(newsRepo, aiRepo, appLogger,
		cfg.Enrichment.BatchSize, cfg.Enrichment.Concurrency, cfg.Enrichment.PollInterval)
	summarySvc, err := service.NewSummaryService(cfg.Summary, newsRepo, summaryRepo, aiRepo, telegramNotifier, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize summary service", zap.Error(err))
	}

	var wg sync.WaitGroup
	wg.Add(3)
	utils.GoSafe(func() {
		defer wg.Done()
		ingestionSvc.Run(ctx)
	})
	utils.GoSafe(func() {
		defer wg.Done()
		enrichmentSvc.Run(ctx)
	})
	utils.GoSafe(func() {
		defer wg.Done()
		summarySvc.Run(ctx)
	})

	appLogger.Info("Pipeline service started")

	<-ctx.Done()
	appLogger.Info("Shutting down pipeline service...")
	wg.Wait()
	appLogger.Info("Pipeline service stopped.")
}

func main() {
	rootCmd := &cobra.Command{Use: "pipeline-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-pipeline.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing pipeline-service CLI: %s\n", err)
		os.Exit(1)
	}
}
