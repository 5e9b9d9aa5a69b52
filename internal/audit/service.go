// Package audit records bookmark lifecycle events and background job
// outcomes.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/placebook/internal/database/audit"
	"github.com/mrlokans/placebook/internal/entities"
	"github.com/mrlokans/placebook/internal/logger"
)

type requestIDKey struct{}

// WithRequestID attaches a correlation id that Record stores with events.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// NewRequestID returns ctx with a fresh correlation id, and the id.
func NewRequestID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return WithRequestID(ctx, id), id
}

// RequestID returns the correlation id carried by ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type userIDKey struct{}

// WithUserID attaches the acting user to ctx.
func WithUserID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func userID(ctx context.Context) uint {
	id, _ := ctx.Value(userIDKey{}).(uint)
	return id
}

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
	log  logger.Logger
}

func NewService(repo *audit.Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{repo: repo, log: log}
}

// Record stores one event. A non-nil err marks the event as failed. Failures
// to write the event are logged, never returned.
func (s *Service) Record(ctx context.Context, action entities.AuditAction, bookmarkID uint, description string, err error) {
	event := &entities.AuditEvent{
		UserID:      userID(ctx),
		Action:      action,
		Description: truncate(description, 500),
		RequestID:   RequestID(ctx),
		Status:      entities.AuditStatusSuccess,
	}
	if bookmarkID != 0 {
		id := bookmarkID
		event.BookmarkID = &id
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	// The event must be stored even if the request that caused it was
	// cancelled right after.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if werr := s.repo.LogEvent(writeCtx, event); werr != nil {
		s.log.Error("failed to record audit event",
			logger.String("action", string(action)),
			logger.Uint("bookmark_id", bookmarkID),
			logger.Error(werr))
	}
}

// Recent returns the latest events, most recent first.
func (s *Service) Recent(ctx context.Context, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, limit, offset)
}

// ForBookmark returns the history of one bookmark.
func (s *Service) ForBookmark(ctx context.Context, bookmarkID uint, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsForBookmark(ctx, bookmarkID, limit, offset)
}

// Cleanup deletes events older than retentionDays.
func (s *Service) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
