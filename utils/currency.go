package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"tripscout/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	fxCachePrefix = "fx:"
	fxCacheTTL    = 1 * time.Hour
)

type exchangeRateAPIResponse struct {
	Result string             `json:"result"`
	Base   string             `json:"base_code"`
	Rates  map[string]float64 `json:"conversion_rates"`
}

// fetchExchangeRate fetches the rate from base to target using ExchangeRate-API.
func fetchExchangeRate(ctx context.Context, from, to string) (float64, error) {
	url := fmt.Sprintf("https://v6.exchangerate-api.com/v6/%s/latest/%s", config.AppConfig.ExchangeRateAPIKey, from)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("building exchange rate request failed: %w", err)
	}
	client := http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	var rateResp exchangeRateAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&rateResp); err != nil {
		return 0, fmt.Errorf("decoding response failed: %w", err)
	}

	if rateResp.Result != "success" {
		return 0, fmt.Errorf("exchange API returned failure result")
	}

	rate, ok := rateResp.Rates[to]
	if !ok {
		return 0, fmt.Errorf("exchange rate for %s not found", to)
	}
	return rate, nil
}

// GetExchangeRate returns the rate from one currency to another, serving
// from the Redis cache when a fresh entry exists.
func GetExchangeRate(ctx context.Context, from, to string) (float64, error) {
	if from == to {
		return 1.0, nil
	}
	key := fxCachePrefix + from + ":" + to
	cache := GetCacheClient()

	if cached, err := cache.Get(ctx, key).Result(); err == nil {
		if rate, parseErr := strconv.ParseFloat(cached, 64); parseErr == nil {
			return rate, nil
		}
	} else if err != redis.Nil {
		GetLogger().Warn("exchange rate cache read failed", zap.Error(err))
	}

	rate, err := fetchExchangeRate(ctx, from, to)
	if err != nil {
		return 0, err
	}
	if err := cache.Set(ctx, key, strconv.FormatFloat(rate, 'f', -1, 64), fxCacheTTL).Err(); err != nil {
		GetLogger().Warn("exchange rate cache write failed", zap.Error(err))
	}
	return rate, nil
}

// ConvertCurrency converts amount between currencies, rounded to cents.
func ConvertCurrency(ctx context.Context, amount float64, fromCurrency, toCurrency string) (float64, error) {
	if fromCurrency == toCurrency {
		return math.Round(amount*100) / 100, nil
	}
	rate, err := GetExchangeRate(ctx, fromCurrency, toCurrency)
	if err != nil {
		return 0, err
	}
	return math.Round(amount*rate*100) / 100, nil
}
