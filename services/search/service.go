package search

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"tripscout/events"
	"tripscout/models"
	"tripscout/services/session"
	"tripscout/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Service is the search engine's operation surface.
type Service interface {
	// Search runs a full multi-provider search and opens a resumable session.
	Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error)
	// Continue re-derives output from an existing session's stored unique
	// result set without contacting providers, unless the result-freshness
	// window has elapsed.
	Continue(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error)
	// Autocomplete suggests locations for a text prefix.
	Autocomplete(ctx context.Context, prefix string, limit int) ([]models.ResolvedLocation, error)
	// Trending returns the most searched destinations of the configured window.
	Trending(ctx context.Context, limit int) ([]models.TrendingDestination, error)
}

// DefaultSearchService wires the pipeline: normalize → resolve → enrich →
// plan → execute → dedup → rank → facets → persist.
type DefaultSearchService struct {
	Normalizer *Normalizer
	Resolver   *DestinationResolver
	Enricher   *IntentEnricher
	Planner    *ExecutionPlanner
	Executor   *Executor
	Dedup      *Deduplicator
	Ranker     *Ranker
	Filters    FilterEngine
	Sessions   session.Service

	CacheClient *redis.Client
	Events      *events.Producer
	Logger      *zap.Logger

	FreshnessWindow time.Duration
	TrendingWindow  time.Duration
	MaxSnapshots    int
	Now             func() time.Time
}

func (s *DefaultSearchService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *DefaultSearchService) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	started := s.now()

	q, err := s.Normalizer.Normalize(req)
	if err != nil {
		return nil, err
	}

	destination, err := s.Resolver.Resolve(ctx, q.Destination)
	if err != nil {
		return nil, err
	}
	var origin *models.ResolvedLocation
	if q.Origin != nil {
		resolved, err := s.Resolver.Resolve(ctx, *q.Origin)
		if err != nil {
			return nil, err
		}
		origin = &resolved
	}

	eq, prefs := s.Enricher.Enrich(ctx, q, origin, destination)

	var strategy models.ExecutionStrategy
	if req.Options != nil {
		strategy = req.Options.Strategy
	}
	plan := s.Planner.BuildPlan(eq, strategy)
	outcomes := s.Executor.Execute(ctx, plan, eq)

	resultSets := s.buildResultSets(ctx, eq, prefs, outcomes, started)
	status := overallStatus(outcomes)

	sess, err := s.Sessions.Create(ctx, eq, status, resultSets)
	if err != nil {
		return nil, fmt.Errorf("failed to persist search session: %w", err)
	}

	s.recordTrending(ctx, destination)
	s.Events.Publish(ctx, events.SearchEvent{
		Type:         "search_completed",
		SessionToken: sess.Token,
		UserID:       q.UserID,
		Mode:         q.Mode,
		Destination:  destination.Code,
		Status:       status,
		ResultCount:  totalResults(resultSets),
		Duration:     s.now().Sub(started),
		At:           s.now(),
	})

	resp := s.buildResponse(sess, eq.Filters, eq.SortBy, eq.Paging.Page)
	resp.Meta.SearchDuration = s.now().Sub(started)
	resp.Meta.ApproximateDestination = destination.Approximate
	resp.DestinationInfo = &destination
	return resp, nil
}

func (s *DefaultSearchService) Continue(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	if req.SessionToken == "" {
		return nil, NewValidationError("sessionToken", "a session token is required to continue")
	}
	started := s.now()

	sess, err := s.Sessions.Update(ctx, req.SessionToken, func(sess *models.SearchSession) error {
		// Re-run providers only when the stored results went stale.
		if s.now().Sub(sess.SearchedAt) > s.FreshnessWindow {
			s.refreshResults(ctx, sess)
		}

		if !req.Filters.IsZero() {
			sess.AppliedFilters = req.Filters
			sess.Analytics.FiltersApplied++
		}
		if req.SortBy != "" {
			sess.SortBy = req.SortBy
		}
		sess.Analytics.Continuations++
		page := req.Page
		if page <= 0 {
			page = 1
		}
		for _, set := range sess.ResultSets {
			set.PageInfo.Page = page
			viewed := set.PageInfo.PageSize
			if viewed > len(set.Results) {
				viewed = len(set.Results)
			}
			sess.Analytics.ResultsViewed += viewed
		}
		sess.Analytics.TimeSpent += s.now().Sub(sess.UpdatedAt)
		return nil
	})
	if err != nil {
		return nil, err
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	resp := s.buildResponse(sess, sess.AppliedFilters, sess.SortBy, page)
	resp.Meta.SearchDuration = s.now().Sub(started)

	s.Events.Publish(ctx, events.SearchEvent{
		Type:         "session_continued",
		SessionToken: sess.Token,
		UserID:       sess.Query.UserID,
		Status:       sess.Status,
		ResultCount:  totalResults(sess.ResultSets),
		At:           s.now(),
	})
	return resp, nil
}

// refreshResults re-executes the stored query's plan and replaces the
// session's result sets. Runs under the session token's lock.
func (s *DefaultSearchService) refreshResults(ctx context.Context, sess *models.SearchSession) {
	s.Logger.Info("session results stale, re-querying providers",
		zap.String("token", sess.Token))
	plan := s.Planner.BuildPlan(sess.Query, "")
	outcomes := s.Executor.Execute(ctx, plan, sess.Query)
	now := s.now()
	sess.ResultSets = s.buildResultSets(ctx, sess.Query, nil, outcomes, now)
	sess.SearchedAt = now
	sess.Status = overallStatus(outcomes)
	session.AppendSnapshots(sess, now, s.MaxSnapshots)
}

// buildResultSets turns raw execution outcomes into per-category unique,
// ranked result sets with derived facets.
func (s *DefaultSearchService) buildResultSets(ctx context.Context, q models.EnrichedQuery, prefs *models.UserPreferences, outcomes []models.ExecutionResult, asOf time.Time) map[models.Category]*models.CategoryResultSet {
	byCategory := make(map[models.Category][]models.ExecutionResult)
	for _, o := range outcomes {
		byCategory[o.Category] = append(byCategory[o.Category], o)
	}

	sets := make(map[models.Category]*models.CategoryResultSet, len(byCategory))
	for cat, catOutcomes := range byCategory {
		var raw []models.UnifiedResult
		providerMeta := make([]models.ProviderOutcome, 0, len(catOutcomes))
		for _, o := range catOutcomes {
			meta := models.ProviderOutcome{
				Code:         o.ProviderCode,
				Success:      o.Success,
				ResponseTime: o.ResponseTime,
				FromCache:    o.FromCache,
				ResultCount:  len(o.Results),
			}
			if o.Failure != nil {
				meta.FailureKind = string(o.Failure.Kind)
			}
			providerMeta = append(providerMeta, meta)
			if o.Success {
				raw = append(raw, o.Results...)
			}
		}
		sort.Slice(providerMeta, func(i, j int) bool { return providerMeta[i].Code < providerMeta[j].Code })

		raw = s.normalizeCurrency(ctx, q.Currency, raw)
		groups := s.Dedup.Deduplicate(cat, raw)
		unique := Collapse(groups)
		ranked := s.Ranker.Rank(unique, q, prefs, asOf)

		sets[cat] = &models.CategoryResultSet{
			Category:   cat,
			Results:    ranked,
			TotalCount: len(ranked),
			PageInfo: models.PageInfo{
				Page:     q.Paging.Page,
				PageSize: q.Paging.PageSize,
			},
			Providers: providerMeta,
			Facets:    s.Filters.DeriveFilters(cat, ranked),
		}
	}
	return sets
}

// normalizeCurrency converts offers reported in another currency into the
// query currency so cross-provider price comparison and ranking work on one
// unit. Offers whose rate cannot be resolved keep their native price.
func (s *DefaultSearchService) normalizeCurrency(ctx context.Context, currency string, results []models.UnifiedResult) []models.UnifiedResult {
	for i := range results {
		p := results[i].Price
		if p.Currency == "" || p.Currency == currency {
			continue
		}
		total, err := utils.ConvertCurrency(ctx, p.Total, p.Currency, currency)
		if err != nil {
			s.Logger.Warn("currency conversion failed, keeping native price",
				zap.String("from", p.Currency),
				zap.String("to", currency),
				zap.Error(err))
			continue
		}
		amount, err := utils.ConvertCurrency(ctx, p.Amount, p.Currency, currency)
		if err != nil {
			continue
		}
		results[i].Price = models.Price{Amount: amount, Currency: currency, Total: total}
	}
	return results
}

// buildResponse derives the wire response from a stored session: filters,
// sort and paging are applied over the stored unique result sets.
func (s *DefaultSearchService) buildResponse(sess *models.SearchSession, filters models.AppliedFilters, sortBy string, page int) *models.SearchResponse {
	blocks := make(map[models.Category]*models.CategoryBlock, len(sess.ResultSets))
	var allProviders []models.ProviderOutcome
	var insights []models.PriceInsights
	cacheHits, cached, live := 0, 0, 0

	for cat, set := range sess.ResultSets {
		filtered, stats := s.Filters.Apply(set.Results, filters)
		sorted := s.Filters.ApplySort(filtered, sortBy)

		pageSize := set.PageInfo.PageSize
		if pageSize <= 0 {
			pageSize = len(sorted)
		}
		items, pageInfo := paginate(sorted, page, pageSize)

		statsCopy := stats
		blocks[cat] = &models.CategoryBlock{
			Items:      items,
			TotalCount: len(sorted),
			PageInfo:   pageInfo,
			Providers:  set.Providers,
			Filters:    set.Facets,
			Sorts:      s.Filters.AvailableSorts(cat),
			Stats:      &statsCopy,
		}
		allProviders = append(allProviders, set.Providers...)
		for _, p := range set.Providers {
			if p.FromCache {
				cacheHits++
				cached += p.ResultCount
			} else {
				live += p.ResultCount
			}
		}
		if in, ok := insightsFor(cat, set.Results, sess.Query.Currency); ok {
			insights = append(insights, in)
		}
	}
	sort.Slice(insights, func(i, j int) bool { return insights[i].Category < insights[j].Category })
	sort.Slice(allProviders, func(i, j int) bool { return allProviders[i].Code < allProviders[j].Code })

	return &models.SearchResponse{
		SessionToken:  sess.Token,
		Status:        sess.Status,
		Results:       blocks,
		Query:         &sess.Query,
		PriceInsights: insights,
		Meta: &models.ResponseMeta{
			Providers:     allProviders,
			CacheHits:     cacheHits,
			ResultSources: models.ResultSources{Cached: cached, Live: live},
		},
	}
}

func (s *DefaultSearchService) Autocomplete(ctx context.Context, prefix string, limit int) ([]models.ResolvedLocation, error) {
	if limit <= 0 {
		limit = 8
	}
	return s.Resolver.Locations.Autocomplete(ctx, prefix, limit)
}

const (
	trendingAggKey  = "trending:agg"
	trendingLocKey  = "trending:loc:"
	trendingHourFmt = "trending:h:2006010215"
)

// recordTrending bumps the destination's counter in the current hour bucket.
// The cron worker folds hour buckets into the aggregate the Trending action
// reads.
func (s *DefaultSearchService) recordTrending(ctx context.Context, dest models.ResolvedLocation) {
	if s.CacheClient == nil || dest.Approximate {
		return
	}
	payload, err := json.Marshal(dest)
	if err != nil {
		return
	}
	key := s.now().Format(trendingHourFmt)
	pipe := s.CacheClient.Pipeline()
	pipe.ZIncrBy(ctx, key, 1, dest.Code)
	pipe.Expire(ctx, key, s.TrendingWindow+2*time.Hour)
	pipe.Set(ctx, trendingLocKey+dest.Code, payload, s.TrendingWindow+2*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		s.Logger.Warn("failed to record trending destination", zap.Error(err))
	}
}

func (s *DefaultSearchService) Trending(ctx context.Context, limit int) ([]models.TrendingDestination, error) {
	if s.CacheClient == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	entries, err := s.CacheClient.ZRevRangeWithScores(ctx, trendingAggKey, 0, int64(limit-1)).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read trending aggregate: %w", err)
	}

	out := make([]models.TrendingDestination, 0, len(entries))
	for _, e := range entries {
		code, _ := e.Member.(string)
		loc := models.ResolvedLocation{Code: code, DisplayName: code, Type: models.LocationCity}
		if data, err := s.CacheClient.Get(ctx, trendingLocKey+code).Bytes(); err == nil {
			_ = json.Unmarshal(data, &loc)
		}
		out = append(out, models.TrendingDestination{Location: loc, SearchCount: int64(e.Score)})
	}
	return out, nil
}

// overallStatus folds provider outcomes into the session status: every
// provider failing is a failed search, any failure with at least one success
// is partial, and zero matches from healthy providers is still completed.
func overallStatus(outcomes []models.ExecutionResult) models.SessionStatus {
	if len(outcomes) == 0 {
		return models.SessionFailed
	}
	successes, failures := 0, 0
	for _, o := range outcomes {
		if o.Success {
			successes++
		} else {
			failures++
		}
	}
	switch {
	case successes == 0:
		return models.SessionFailed
	case failures > 0:
		return models.SessionPartial
	default:
		return models.SessionCompleted
	}
}

func totalResults(sets map[models.Category]*models.CategoryResultSet) int {
	total := 0
	for _, set := range sets {
		total += set.TotalCount
	}
	return total
}

func paginate(results []models.UnifiedResult, page, pageSize int) ([]models.UnifiedResult, models.PageInfo) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(len(results)) / float64(pageSize)))
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start > len(results) {
		start = len(results)
	}
	end := start + pageSize
	if end > len(results) {
		end = len(results)
	}
	return results[start:end], models.PageInfo{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

func insightsFor(cat models.Category, results []models.UnifiedResult, currency string) (models.PriceInsights, bool) {
	if len(results) == 0 {
		return models.PriceInsights{}, false
	}
	prices := make([]float64, 0, len(results))
	sum := 0.0
	for _, r := range results {
		prices = append(prices, r.Price.Total)
		sum += r.Price.Total
	}
	sort.Float64s(prices)
	median := prices[len(prices)/2]
	if len(prices)%2 == 0 {
		median = (prices[len(prices)/2-1] + prices[len(prices)/2]) / 2
	}
	return models.PriceInsights{
		Category:    cat,
		MinPrice:    prices[0],
		MedianPrice: median,
		AvgPrice:    sum / float64(len(prices)),
		Currency:    currency,
	}, true
}
