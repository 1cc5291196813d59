package ai

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

type rateLimitedAnalyzer struct {
	next    Analyzer
	limiter *rate.Limiter
}

// NewRateLimitedAnalyzer caps calls to next at perMinute requests per minute.
// A non-positive perMinute returns next unchanged.
func NewRateLimitedAnalyzer(next Analyzer, perMinute int) Analyzer {
	if perMinute <= 0 {
		return next
	}
	return &rateLimitedAnalyzer{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

func (a *rateLimitedAnalyzer) Analyze(ctx context.Context, text string) (Result, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return Result{}, err
	}
	return a.next.Analyze(ctx, text)
}
