// Package ratelimit throttles the mvca MCP tools with one token bucket per
// tool.
package ratelimit

import (
	"errors"
	"fmt"

	"golang.org/x/time/rate"
)

// ErrRateLimited is returned by CheckLimit when a tool's bucket is empty.
var ErrRateLimited = errors.New("rate limit exceeded")

// ToolLimiters maps tool names to their limiters.
type ToolLimiters map[string]*rate.Limiter

// perMinute converts a per-minute budget into a rate.Limit.
func perMinute(n float64) rate.Limit { return rate.Limit(n / 60) }

// NewToolLimiters creates the default set of per-tool limiters.
// Generation and voting are CPU-bound and get tighter budgets than reads.
func NewToolLimiters() ToolLimiters {
	return ToolLimiters{
		"mvca_generate": rate.NewLimiter(perMinute(30), 10),
		"mvca_vote":     rate.NewLimiter(perMinute(30), 10),
		"mvca_inspect":  rate.NewLimiter(perMinute(60), 20),
		"mvca_list":     rate.NewLimiter(perMinute(60), 20),
	}
}

// CheckLimit takes one token for toolName. Tools without a limiter are
// never throttled.
func CheckLimit(limiters ToolLimiters, toolName string) error {
	limiter, ok := limiters[toolName]
	if !ok {
		return nil
	}
	if !limiter.Allow() {
		return fmt.Errorf("%w for %s, please try again shortly", ErrRateLimited, toolName)
	}
	return nil
}
