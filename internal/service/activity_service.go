package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"expense_tracker/internal/models"
	"expense_tracker/internal/repository"
)

type ActivityLogService struct {
	eventRepo repository.EventRepo
	now       func() time.Time
}

func NewActivityLogService(eventRepo repository.EventRepo) *ActivityLogService {
	return &ActivityLogService{eventRepo: eventRepo, now: time.Now}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
)

// Record appends an event for userID stamped with the current UTC time.
func (s *ActivityLogService) Record(ctx context.Context, userID int64, typ, description string, meta any) error {
	return s.eventRepo.Append(ctx, models.ActivityEvent{
		UserID:      userID,
		OccurredAt:  s.now().UTC(),
		Type:        normalizeEventType(typ),
		Description: description,
		Metadata:    meta,
	})
}

func (s *ActivityLogService) List(ctx context.Context, userID int64, f LogFilter) ([]models.ActivityEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, &ValidationError{Problems: []string{err.Error()}}
	}
	return s.eventRepo.List(ctx, userID, from, to, typ)
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	return from, to, normalizeEventType(f.Type), nil
}
