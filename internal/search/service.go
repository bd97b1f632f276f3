package search

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Service wraps the orchestrator with the result cache and a per-request
// compute timeout. Cancelling the inbound request cancels every in-flight
// window query through the shared context.
type Service struct {
	orchestrator   SweepService
	cache          CacheService
	computeTimeout time.Duration
}

func NewService(orchestrator SweepService, cache CacheService, computeTimeout time.Duration) *Service {
	return &Service{
		orchestrator:   orchestrator,
		cache:          cache,
		computeTimeout: computeTimeout,
	}
}

func (s *Service) Search(ctx context.Context, req SweepRequest) (SweepResult, error) {
	cctx, cancel := context.WithTimeout(ctx, s.computeTimeout)
	defer cancel()

	return s.cache.GetOrCompute(cctx, cacheKey(req), func(ctx context.Context) (SweepResult, error) {
		return s.orchestrator.Search(ctx, req)
	})
}

func cacheKey(req SweepRequest) string {
	ages := make([]string, len(req.ChildAges))
	for i, age := range req.ChildAges {
		ages[i] = fmt.Sprintf("%d", age)
	}
	return fmt.Sprintf("%s|%s|%s|%d|%d|%s",
		req.Language,
		req.Timespan.From.String(),
		req.Timespan.To.String(),
		req.DurationDays,
		req.Adults,
		strings.Join(ages, ","),
	)
}
