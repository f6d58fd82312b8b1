// File: tripscout/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripscout/config"
	"tripscout/cron"
	"tripscout/database"
	locationRepoPkg "tripscout/database/repository/location"
	userprefsRepoPkg "tripscout/database/repository/userprefs"
	"tripscout/events"
	"tripscout/handlers"
	"tripscout/models"
	"tripscout/providers"
	"tripscout/providers/fixture"
	"tripscout/routes"
	"tripscout/services/search"
	"tripscout/services/session"
	"tripscout/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.StartHealthMonitor(utils.GetCacheClient(), utils.GetSessionCacheClient(), database.MongoClient)

	registry, err := buildRegistry()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to build provider registry: %v", err)
	}

	// Repositories.
	locRepo := locationRepoPkg.NewCachedLocationRepo(
		locationRepoPkg.NewMongoLocationRepo(),
		utils.GetCacheClient(),
		1*time.Hour,
	)
	prefsRepo := userprefsRepoPkg.NewMongoPreferenceRepo()

	// Services.
	plannerCfg := search.PlannerConfig{
		CallTimeout:  time.Duration(config.AppConfig.ProviderCallTimeoutMs) * time.Millisecond,
		PhaseTimeout: time.Duration(config.AppConfig.PhaseTimeoutMs) * time.Millisecond,
		PlanTimeout:  time.Duration(config.AppConfig.PlanTimeoutMs) * time.Millisecond,
		MinResults:   config.AppConfig.MinResultsThreshold,
	}
	freshness := time.Duration(config.AppConfig.ResultFreshnessMinutes) * time.Minute

	sessionSvc := session.NewRedisSessionService(
		utils.GetSessionCacheClient(),
		time.Duration(config.AppConfig.SessionTTLMinutes)*time.Minute,
		config.AppConfig.MaxPriceSnapshots,
		logger,
	)
	producer := events.NewProducer(config.KafkaBrokerList(), config.AppConfig.KafkaTopic, logger)

	searchSvc := &search.DefaultSearchService{
		Normalizer: &search.Normalizer{
			DefaultCurrency: config.AppConfig.DefaultCurrency,
			DefaultPageSize: config.AppConfig.DefaultPageSize,
		},
		Resolver: &search.DestinationResolver{Locations: locRepo, Logger: logger},
		Enricher: &search.IntentEnricher{Preferences: prefsRepo, Logger: logger},
		Planner:  &search.ExecutionPlanner{Registry: registry, Config: plannerCfg},
		Executor: &search.Executor{Registry: registry, Config: plannerCfg, Logger: logger},
		Dedup: &search.Deduplicator{
			Config: search.DedupConfig{
				SimilarityThreshold: config.AppConfig.DedupSimilarityThreshold,
				TimeBucket:          time.Duration(config.AppConfig.DedupTimeBucketMinutes) * time.Minute,
				GeoCellKm:           config.AppConfig.DedupGeoCellKm,
			},
			ProviderLess: registry.Less,
		},
		Ranker: &search.Ranker{
			Weights: search.RankWeights{
				Price:           config.AppConfig.RankWeightPrice,
				Quality:         config.AppConfig.RankWeightQuality,
				Relevance:       config.AppConfig.RankWeightRelevance,
				Personalization: config.AppConfig.RankWeightPersonalization,
				Freshness:       config.AppConfig.RankWeightFreshness,
			},
			FreshnessWindow: freshness,
			ProviderLess:    registry.Less,
		},
		Sessions:        sessionSvc,
		CacheClient:     utils.GetCacheClient(),
		Events:          producer,
		Logger:          logger,
		FreshnessWindow: freshness,
		TrendingWindow:  time.Duration(config.AppConfig.TrendingWindowHours) * time.Hour,
		MaxSnapshots:    config.AppConfig.MaxPriceSnapshots,
	}

	cron.InitTrendingWorker()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	handlerBundle := &handlers.HandlerBundle{
		SearchHandler: handlers.SearchHandler(searchSvc),
		HealthHandler: handlers.HealthHandler(registry),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := producer.Close(); err != nil {
		logger.Sugar().Warnf("main: failed to close event producer: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// buildRegistry assembles the provider adapters. Fixture adapters serve
// local development and tests; real upstream adapters register here once
// their integrations land.
func buildRegistry() (*providers.Registry, error) {
	var adapters []providers.Adapter
	if config.AppConfig.UseFixtureProviders {
		adapters = fixtureAdapters()
	}
	return providers.NewRegistry(config.ProviderPriorityList(), adapters...)
}

func fixtureAdapters() []providers.Adapter {
	specs := []struct {
		code, name string
		categories []string
	}{
		{"skyways", "Skyways GDS", []string{"flight"}},
		{"aerolink", "AeroLink", []string{"flight"}},
		{"stayhub", "StayHub", []string{"hotel"}},
		{"roomrate", "RoomRate", []string{"hotel", "experience"}},
		{"wheelsgo", "WheelsGo", []string{"car"}},
		{"omnitrip", "OmniTrip", []string{"flight", "hotel", "car", "experience"}},
	}

	out := make([]providers.Adapter, 0, len(specs))
	for _, s := range specs {
		cats := make([]models.Category, 0, len(s.categories))
		for _, c := range s.categories {
			cats = append(cats, models.Category(c))
		}
		a := fixture.New(s.code, s.name, cats...)
		out = append(out, providers.WithBreaker(a, 5, 30*time.Second))
	}
	return out
}
