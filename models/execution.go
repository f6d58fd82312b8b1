package models

import "time"

// ExecutionStrategy selects how providers within a phase are called.
type ExecutionStrategy string

const (
	StrategyParallel   ExecutionStrategy = "parallel"
	StrategySequential ExecutionStrategy = "sequential"
	StrategyHybrid     ExecutionStrategy = "hybrid"
)

// ExecutionPhase is one timed, provider-scoped unit of the search plan.
type ExecutionPhase struct {
	Category  Category      `json:"category"`
	Providers []string      `json:"providers"` // provider codes
	Timeout   time.Duration `json:"timeout"`
	// WaitForAll forces the phase to wait for every provider. When false the
	// phase returns as soon as MinResults is met and abandons stragglers.
	WaitForAll bool `json:"waitForAll"`
	MinResults int  `json:"minResults,omitempty"`
}

// ExecutionPlan is the ordered set of phases for one search attempt.
type ExecutionPlan struct {
	Strategy ExecutionStrategy `json:"strategy"`
	Phases   []ExecutionPhase  `json:"phases"`
	Timeout  time.Duration     `json:"timeout"` // overall plan deadline
}

// ProviderFailureKind classifies a recoverable provider failure.
type ProviderFailureKind string

const (
	FailureTimeout     ProviderFailureKind = "timeout"
	FailureRateLimited ProviderFailureKind = "rate_limited"
	FailureUpstream    ProviderFailureKind = "upstream_error"
	FailureUnavailable ProviderFailureKind = "unavailable"
	FailureAbandoned   ProviderFailureKind = "abandoned"
)

// ProviderFailure is the structured failure an adapter reports instead of
// raising an error for recoverable conditions.
type ProviderFailure struct {
	Kind    ProviderFailureKind `json:"kind"`
	Message string              `json:"message,omitempty"`
}

func (f ProviderFailure) Error() string {
	if f.Message == "" {
		return string(f.Kind)
	}
	return string(f.Kind) + ": " + f.Message
}

// ExecutionResult records one provider call's outcome within a phase.
type ExecutionResult struct {
	ProviderCode string           `json:"providerCode"`
	Category     Category         `json:"category"`
	Success      bool             `json:"success"`
	Results      []UnifiedResult  `json:"results,omitempty"`
	Failure      *ProviderFailure `json:"failure,omitempty"`
	ResponseTime time.Duration    `json:"responseTime"`
	FromCache    bool             `json:"fromCache"`
	TotalCount   int              `json:"totalCount"`
	HasMore      bool             `json:"hasMore"`
}
