package usecase

import (
	"context"
	"time"

	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/internal/service"

	"github.com/sirupsen/logrus"
)

// truncateDay returns midnight UTC of t's calendar day
func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// withQueryTimeout bounds directory reads. A zero timeout leaves ctx untouched.
func withQueryTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// publishEvents runs after commit; a broker failure never fails the request.
func publishEvents(ctx context.Context, publisher service.EventPublisher, log *logrus.Logger, events ...entity.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		log.Warnf("Failed to publish %d event(s) starting with %s: %+v", len(events), events[0].Type, err)
	}
}

func invalidateTopHospitals(ctx context.Context, cache service.DirectoryCache, log *logrus.Logger) {
	if err := cache.InvalidateTopHospitals(ctx); err != nil {
		log.Warnf("Failed to invalidate top hospitals cache: %+v", err)
	}
}
