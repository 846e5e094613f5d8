package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/linkfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkfolio/pkg/ports"
)

// Deduper answers "is this the first time this actor did this to this subject within the window".
// Two simultaneous first calls for the same key may both win; counters are advisory.
type Deduper struct {
	cache  ports.CacheStore
	ttls   map[domain.EventType]time.Duration
	logger *zap.Logger
}

func NewDeduper(cache ports.CacheStore, logger *zap.Logger) *Deduper {
	return &Deduper{
		cache:  cache,
		ttls:   domain.DedupTTL,
		logger: logger.With(zap.String("component", "dedup")),
	}
}

// Acquire reports whether the caller may count the event. A cache failure is logged and returned
// with false so the caller can skip the count and keep serving.
func (d *Deduper) Acquire(ctx context.Context, event domain.EventType, subjectID int64, fingerprint string) (bool, error) {
	ttl, ok := d.ttls[event]
	if !ok {
		return false, fmt.Errorf("unknown event type %q", event)
	}

	key := domain.DedupKey(event, subjectID, fingerprint)

	seen, err := d.cache.Exists(ctx, key)
	if err != nil {
		return false, d.unavailable(event, subjectID, err)
	}
	if seen {
		return false, nil
	}

	first, err := d.cache.SetNX(ctx, key, ttl)
	if err != nil {
		return false, d.unavailable(event, subjectID, err)
	}
	return first, nil
}

func (d *Deduper) unavailable(event domain.EventType, subjectID int64, err error) error {
	d.logger.Warn("dedup cache unavailable, skipping count",
		zap.String("event", string(event)),
		zap.Int64("subject_id", subjectID),
		zap.Error(err),
	)
	return fmt.Errorf("dedup cache: %w", err)
}
