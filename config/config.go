package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisTaskDB    int    `mapstructure:"REDIS_TASK_DB"`

	// Kafka analytics stream. Empty broker list disables publishing.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	// Search execution.
	ProviderCallTimeoutMs int    `mapstructure:"PROVIDER_CALL_TIMEOUT_MS"`
	PhaseTimeoutMs        int    `mapstructure:"PHASE_TIMEOUT_MS"`
	PlanTimeoutMs         int    `mapstructure:"PLAN_TIMEOUT_MS"`
	MinResultsThreshold   int    `mapstructure:"MIN_RESULTS_THRESHOLD"`
	ProviderPriority      string `mapstructure:"PROVIDER_PRIORITY"`
	DefaultCurrency       string `mapstructure:"DEFAULT_CURRENCY"`
	DefaultPageSize       int    `mapstructure:"DEFAULT_PAGE_SIZE"`
	UseFixtureProviders   bool   `mapstructure:"USE_FIXTURE_PROVIDERS"`
	ExchangeRateAPIKey    string `mapstructure:"EXCHANGE_RATE_API_KEY"`

	// Deduplication tuning.
	DedupSimilarityThreshold float64 `mapstructure:"DEDUP_SIMILARITY_THRESHOLD"`
	DedupTimeBucketMinutes   int     `mapstructure:"DEDUP_TIME_BUCKET_MINUTES"`
	DedupGeoCellKm           float64 `mapstructure:"DEDUP_GEO_CELL_KM"`

	// Ranking weights. They are normalized at use, so only ratios matter.
	RankWeightPrice           float64 `mapstructure:"RANK_WEIGHT_PRICE"`
	RankWeightQuality         float64 `mapstructure:"RANK_WEIGHT_QUALITY"`
	RankWeightRelevance       float64 `mapstructure:"RANK_WEIGHT_RELEVANCE"`
	RankWeightPersonalization float64 `mapstructure:"RANK_WEIGHT_PERSONALIZATION"`
	RankWeightFreshness       float64 `mapstructure:"RANK_WEIGHT_FRESHNESS"`

	// Session lifecycle.
	SessionTTLMinutes      int `mapstructure:"SESSION_TTL_MINUTES"`
	ResultFreshnessMinutes int `mapstructure:"RESULT_FRESHNESS_MINUTES"`
	MaxPriceSnapshots      int `mapstructure:"MAX_PRICE_SNAPSHOTS"`
	TrendingWindowHours    int `mapstructure:"TRENDING_WINDOW_HOURS"`
	TrendingRefreshMinutes int `mapstructure:"TRENDING_REFRESH_MINUTES"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "tripscout")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_TASK_DB", 2)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "tripscout.search.events")
	viper.SetDefault("PROVIDER_CALL_TIMEOUT_MS", 4000)
	viper.SetDefault("PHASE_TIMEOUT_MS", 6000)
	viper.SetDefault("PLAN_TIMEOUT_MS", 12000)
	viper.SetDefault("MIN_RESULTS_THRESHOLD", 5)
	viper.SetDefault("PROVIDER_PRIORITY", "")
	viper.SetDefault("DEFAULT_CURRENCY", "USD")
	viper.SetDefault("DEFAULT_PAGE_SIZE", 20)
	viper.SetDefault("USE_FIXTURE_PROVIDERS", true)
	viper.SetDefault("EXCHANGE_RATE_API_KEY", "")
	viper.SetDefault("DEDUP_SIMILARITY_THRESHOLD", 0.85)
	viper.SetDefault("DEDUP_TIME_BUCKET_MINUTES", 30)
	viper.SetDefault("DEDUP_GEO_CELL_KM", 1.0)
	viper.SetDefault("RANK_WEIGHT_PRICE", 0.35)
	viper.SetDefault("RANK_WEIGHT_QUALITY", 0.25)
	viper.SetDefault("RANK_WEIGHT_RELEVANCE", 0.20)
	viper.SetDefault("RANK_WEIGHT_PERSONALIZATION", 0.10)
	viper.SetDefault("RANK_WEIGHT_FRESHNESS", 0.10)
	viper.SetDefault("SESSION_TTL_MINUTES", 30)
	viper.SetDefault("RESULT_FRESHNESS_MINUTES", 15)
	viper.SetDefault("MAX_PRICE_SNAPSHOTS", 50)
	viper.SetDefault("TRENDING_WINDOW_HOURS", 24)
	viper.SetDefault("TRENDING_REFRESH_MINUTES", 15)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// IsProduction reports whether the service runs with the production profile.
func IsProduction() bool {
	return AppConfig.Env == "production"
}

// ProviderPriorityList returns the configured provider priority order as a slice.
func ProviderPriorityList() []string {
	return splitList(AppConfig.ProviderPriority)
}

// KafkaBrokerList returns the configured Kafka brokers, empty when publishing is disabled.
func KafkaBrokerList() []string {
	return splitList(AppConfig.KafkaBrokers)
}

func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
