package services

import (
	"context"
	"time"

	"handwash-backend/application/ports"
	"handwash-backend/domain/model"
	"handwash-backend/pkg/utils"

	"go.uber.org/zap"
)

// ReminderService is the daily fan-out: for every family with
// subscriptions it computes who already washed today and nudges everyone
// else, pruning endpoints that are permanently gone. Each run is
// self-contained; no state persists between runs.
type ReminderService struct {
	push        *PushService
	events      *EventService
	dispatcher  ports.PushDispatcher
	metrics     ports.MetricsEmitter
	logger      *zap.Logger
	tzOffsetMin int
	now         func() time.Time
}

// NewReminderService creates a new reminder service. tzOffsetMinutes pins
// the "today" boundary to the service's reference timezone, independent of
// where the process runs.
func NewReminderService(
	push *PushService,
	events *EventService,
	dispatcher ports.PushDispatcher,
	metrics ports.MetricsEmitter,
	tzOffsetMinutes int,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		push:        push,
		events:      events,
		dispatcher:  dispatcher,
		metrics:     metrics,
		logger:      logger,
		tzOffsetMin: tzOffsetMinutes,
		now:         time.Now,
	}
}

// RunStats are the aggregate counts of one reminder run.
type RunStats struct {
	Families int
	Sent     int
	Skipped  int
	Failed   int
}

// Run executes one reminder pass. Families are processed independently: a
// query failure on one family skips that family and counts it failed, but
// never aborts reminders already owed to the rest. Per-subscription
// delivery failures are counted and left for the next scheduled run; only
// Gone outcomes prune the subscription.
func (s *ReminderService) Run(ctx context.Context) (RunStats, error) {
	start := s.now()
	todayStart := utils.DayStartMillis(start, s.tzOffsetMin)

	s.logger.Info("reminder run started",
		zap.Int64("todayStartMs", todayStart),
		zap.Int("tzOffsetMinutes", s.tzOffsetMin),
	)

	byFamily, err := s.push.AllByFamily(ctx)
	if err != nil {
		return RunStats{}, err
	}

	var stats RunStats
	for familyID, subs := range byFamily {
		stats.Families++

		washed, err := s.events.WashedSince(ctx, familyID, todayStart)
		if err != nil {
			// Fatal to this family only; its members retry next tick.
			s.logger.Error("failed to compute exempt set, skipping family",
				zap.Error(err),
				zap.String("familyId", familyID),
			)
			stats.Failed += len(subs)
			continue
		}

		msg := ports.PushMessage{
			Title: "🧼 Handwash reminder",
			Body:  "Have you washed your hands today?",
			URL:   "/",
		}

		for _, sub := range subs {
			if washed[sub.UserSub] {
				stats.Skipped++
				continue
			}

			outcome, err := s.dispatcher.Send(ctx, sub, msg)
			if err != nil {
				stats.Failed++
				s.logger.Error("reminder delivery rejected",
					zap.Error(err),
					zap.String("sub", sub.UserSub),
				)
				continue
			}

			switch outcome {
			case ports.Delivered:
				stats.Sent++
			case ports.Gone:
				stats.Failed++
				s.pruneSubscription(ctx, sub)
			default:
				stats.Failed++
				s.logger.Warn("reminder delivery failed, will retry next run",
					zap.String("sub", sub.UserSub),
					zap.String("familyId", familyID),
				)
			}
		}
	}

	s.emitCounts(ctx, stats)

	s.logger.Info("reminder run completed",
		zap.Int("families", stats.Families),
		zap.Int("sent", stats.Sent),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
		zap.Duration("duration", s.now().Sub(start)),
	)
	return stats, nil
}

// pruneSubscription removes a permanently-gone endpoint so the next run
// does not attempt it again.
func (s *ReminderService) pruneSubscription(ctx context.Context, sub model.PushSubscription) {
	if err := s.push.Remove(ctx, sub.UserSub, sub.EndpointHash); err != nil {
		s.logger.Error("failed to prune expired subscription",
			zap.Error(err),
			zap.String("sub", sub.UserSub),
			zap.String("endpointHash", sub.EndpointHash),
		)
		return
	}
	s.logger.Info("pruned expired subscription",
		zap.String("sub", sub.UserSub),
		zap.String("endpointHash", sub.EndpointHash),
	)
}

// emitCounts publishes run metrics. Best effort: a metrics failure never
// fails the run.
func (s *ReminderService) emitCounts(ctx context.Context, stats RunStats) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.EmitReminderCounts(ctx, stats.Sent, stats.Skipped, stats.Failed); err != nil {
		s.logger.Warn("failed to emit reminder metrics", zap.Error(err))
	}
}
