package services

import (
	"context"
	"time"

	"handwash-backend/application/ports"
	"handwash-backend/domain/model"
	apperrors "handwash-backend/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxNoteLen        = 200
	defaultQueryLimit = 50
	maxQueryLimit     = 200
	defaultQuerySpan  = 7 * 24 * time.Hour
)

// EventService is the append-only per-family log of completed washes,
// queryable by time range.
type EventService struct {
	store  ports.KeyValueStore
	logger *zap.Logger
	now    func() time.Time
}

// NewEventService creates a new event service
func NewEventService(store ports.KeyValueStore, logger *zap.Logger) *EventService {
	return &EventService{store: store, logger: logger, now: time.Now}
}

// AppendInput carries the optional attributes of a wash event.
type AppendInput struct {
	Mode        string
	DurationSec int
	Note        string
}

// EventQuery selects events from the log. Zero FromMs/ToMs default to the
// last seven days. CreatedBy, when set, filters to one actor.
type EventQuery struct {
	FromMs    int64
	ToMs      int64
	Limit     int
	Ascending bool
	CreatedBy string
}

// Append records a completed wash for the actor. Repeated identical
// submissions are all recorded; repeated washes are legitimate, so there is
// no deduplication. The sort key pairs the padded timestamp with the event
// id, keeping same-millisecond writes unique.
func (s *EventService) Append(ctx context.Context, actorSub, familyID string, in AppendInput) (model.HandwashEvent, error) {
	if _, err := requireMembership(ctx, s.store, actorSub, familyID); err != nil {
		return model.HandwashEvent{}, err
	}

	note := in.Note
	if runes := []rune(note); len(runes) > maxNoteLen {
		note = string(runes[:maxNoteLen])
	}

	event := model.HandwashEvent{
		FamilyID:    familyID,
		EventID:     uuid.New().String(),
		AtMs:        s.now().UnixMilli(),
		CreatedBy:   actorSub,
		Mode:        in.Mode,
		DurationSec: in.DurationSec,
		Note:        note,
	}

	if err := s.store.Put(ctx, event.ToItem()); err != nil {
		return model.HandwashEvent{}, apperrors.NewDatabaseError("append event", err)
	}

	s.logger.Debug("handwash event appended",
		zap.String("familyId", familyID),
		zap.String("eventId", event.EventID),
		zap.Int64("atMs", event.AtMs),
	)
	return event, nil
}

// Query returns events within [FromMs, ToMs] inclusive. The upper bound
// key carries a maximal suffix so every event in the boundary millisecond
// is included. Result size is capped at 200 regardless of the requested
// limit.
func (s *EventService) Query(ctx context.Context, requesterSub, familyID string, q EventQuery) ([]model.HandwashEvent, error) {
	if _, err := requireMembership(ctx, s.store, requesterSub, familyID); err != nil {
		return nil, err
	}

	nowMs := s.now().UnixMilli()
	from := q.FromMs
	to := q.ToMs
	if from <= 0 {
		from = nowMs - defaultQuerySpan.Milliseconds()
	}
	if to <= 0 {
		to = nowMs
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}

	items, err := s.store.Query(ctx, model.FamilyPK(familyID), ports.RangeQuery{
		SortStart: model.EventSKLowerBound(from),
		SortEnd:   model.EventSKUpperBound(to),
		Limit:     limit,
		Ascending: q.Ascending,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("query events", err)
	}

	events := make([]model.HandwashEvent, 0, len(items))
	for _, item := range items {
		event := model.HandwashEventFromItem(item)
		if q.CreatedBy != "" && event.CreatedBy != q.CreatedBy {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// WashedSince returns the set of users with at least one event in
// [fromMs, now]. The reminder run uses it as the per-family exempt set; no
// membership check applies because the scheduler is not a user.
func (s *EventService) WashedSince(ctx context.Context, familyID string, fromMs int64) (map[string]bool, error) {
	items, err := s.store.Query(ctx, model.FamilyPK(familyID), ports.RangeQuery{
		SortStart: model.EventSKLowerBound(fromMs),
		SortEnd:   model.EventSKUpperBound(s.now().UnixMilli()),
		Ascending: true,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("query events", err)
	}

	washed := make(map[string]bool, len(items))
	for _, item := range items {
		if createdBy, ok := item["createdBy"].(string); ok && createdBy != "" {
			washed[createdBy] = true
		}
	}
	return washed, nil
}
