package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/linkfolio/pkg/adapters/metrics"
	"github.com/wadjakorntonsri/linkfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkfolio/pkg/ports"
)

type EngagementService struct {
	counters ports.CounterRepository
	deduper  *Deduper
	metrics  *metrics.Collector
	logger   *zap.Logger
}

func NewEngagementService(counters ports.CounterRepository, deduper *Deduper, m *metrics.Collector, logger *zap.Logger) *EngagementService {
	return &EngagementService{
		counters: counters,
		deduper:  deduper,
		metrics:  m,
		logger:   logger.With(zap.String("component", "engagement")),
	}
}

// RecordVisit counts a profile page view. The profile is its own owner.
func (s *EngagementService) RecordVisit(ctx context.Context, profileID int64, actor domain.Actor) error {
	return s.record(ctx, domain.EventProfileVisit, profileID, profileID, actor, s.counters.IncrementVisits)
}

func (s *EngagementService) RecordLinkClick(ctx context.Context, linkID, ownerID int64, actor domain.Actor) error {
	return s.record(ctx, domain.EventLinkClick, linkID, ownerID, actor, s.counters.IncrementLinkClicks)
}

func (s *EngagementService) RecordPostView(ctx context.Context, postID, ownerID int64, actor domain.Actor) error {
	return s.record(ctx, domain.EventPostView, postID, ownerID, actor, s.counters.IncrementPostViews)
}

func (s *EngagementService) record(
	ctx context.Context,
	event domain.EventType,
	subjectID, ownerID int64,
	actor domain.Actor,
	increment func(context.Context, int64) error,
) error {
	if actor.Owns(ownerID) {
		s.metrics.ObserveEngagement(string(event), "owner")
		return nil
	}

	first, err := s.deduper.Acquire(ctx, event, subjectID, actor.Fingerprint)
	if err != nil {
		// Fail open: the page being served matters more than the count.
		s.metrics.ObserveEngagement(string(event), "cache_error")
		return nil
	}
	if !first {
		s.metrics.ObserveEngagement(string(event), "duplicate")
		return nil
	}

	if err := increment(ctx, subjectID); err != nil {
		return fmt.Errorf("incrementing %s counter: %w", event, err)
	}
	s.metrics.ObserveEngagement(string(event), "counted")
	s.logger.Debug("engagement counted", zap.String("event", string(event)), zap.Int64("subject_id", subjectID))
	return nil
}

var _ ports.EngagementService = (*EngagementService)(nil)
