package cron

import (
	"context"
	"fmt"
	"time"

	"tripscout/config"
	"tripscout/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeTrendingAggregate = "trending:aggregate"

// Keys shared with the search service's trending recorder.
const (
	trendingAggKey  = "trending:agg"
	trendingHourFmt = "trending:h:2006010215"
)

// InitTrendingWorker runs the background task worker and the periodic
// scheduler that folds hourly trending buckets into the served aggregate.
func InitTrendingWorker() {
	logger := utils.GetLogger()
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeTrendingAggregate, handleTrendingAggregate)

	go func() {
		logger.Info("starting trending worker")
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("trending worker failed to start",
					zap.Int("attempt", attempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Fatal("trending worker gave up after max attempts")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go runScheduler(redisOpts, logger)
}

func runScheduler(redisOpts asynq.RedisClientOpt, logger *zap.Logger) {
	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
	spec := fmt.Sprintf("@every %dm", config.AppConfig.TrendingRefreshMinutes)
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeTrendingAggregate, nil)); err != nil {
		logger.Error("failed to register trending aggregation schedule", zap.Error(err))
		return
	}
	if err := scheduler.Run(); err != nil {
		logger.Error("trending scheduler stopped", zap.Error(err))
	}
}

// handleTrendingAggregate unions the hour buckets of the trending window
// into the aggregate sorted set the trending endpoint reads.
func handleTrendingAggregate(ctx context.Context, _ *asynq.Task) error {
	logger := utils.GetLogger()
	client := utils.GetCacheClient()
	if client == nil {
		return nil
	}

	// The recorder expires hour buckets, so missing keys are expected and
	// union over them yields an empty contribution.
	hours := config.AppConfig.TrendingWindowHours
	keys := make([]string, 0, hours)
	now := time.Now().UTC().Truncate(time.Hour)
	for i := 0; i < hours; i++ {
		keys = append(keys, now.Add(-time.Duration(i)*time.Hour).Format(trendingHourFmt))
	}

	if err := client.ZUnionStore(ctx, trendingAggKey, &redis.ZStore{Keys: keys}).Err(); err != nil {
		logger.Error("trending aggregation failed", zap.Error(err))
		return err
	}
	ttl := time.Duration(config.AppConfig.TrendingWindowHours+2) * time.Hour
	if err := client.Expire(ctx, trendingAggKey, ttl).Err(); err != nil {
		logger.Warn("failed to set trending aggregate TTL", zap.Error(err))
	}

	logger.Debug("trending aggregate refreshed", zap.Int("buckets", len(keys)))
	return nil
}
