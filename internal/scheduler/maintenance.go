// Package scheduler runs periodic maintenance: the orphan photo sweep and
// audit event retention.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/placebook/internal/entities"
	"github.com/mrlokans/placebook/internal/logger"
	"github.com/mrlokans/placebook/internal/tasks"
)

// Enqueuer hands jobs to the background queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, tasks ...backlite.Task) ([]string, error)
}

// PhotoPruner removes photos of deleted bookmarks.
type PhotoPruner interface {
	PruneOrphanPhotos(ctx context.Context) (int, error)
}

// Auditor records the outcome of a maintenance run.
type Auditor interface {
	Record(ctx context.Context, action entities.AuditAction, bookmarkID uint, description string, err error)
}

// Settings selects what runs and when.
type Settings struct {
	Enabled            bool
	Schedule           string // cron format, "0 3 * * *" = daily at 03:00
	AuditRetentionDays int
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule reports whether schedule is a valid five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// MaintenanceScheduler triggers the photo sweep and audit cleanup. With a
// task queue the work is enqueued so it gets retries, otherwise it runs inline.
type MaintenanceScheduler struct {
	settings Settings
	pruner   PhotoPruner
	queue    Enqueuer
	cleaner  tasks.AuditEventCleaner
	auditor  Auditor
	log      logger.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

func NewMaintenanceScheduler(settings Settings, pruner PhotoPruner, log logger.Logger) *MaintenanceScheduler {
	if log == nil {
		log = logger.NewNop()
	}
	return &MaintenanceScheduler{
		settings: settings,
		pruner:   pruner,
		log:      log,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// SetQueue routes runs through the background task queue.
func (s *MaintenanceScheduler) SetQueue(q Enqueuer) {
	s.queue = q
}

// SetAuditCleaner enables audit retention for inline runs.
func (s *MaintenanceScheduler) SetAuditCleaner(c tasks.AuditEventCleaner) {
	s.cleaner = c
}

// SetAuditor records every run as an audit event.
func (s *MaintenanceScheduler) SetAuditor(a Auditor) {
	s.auditor = a
}

// Start schedules the maintenance job if enabled.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if !s.settings.Enabled {
		s.log.Info("maintenance scheduler disabled")
		return nil
	}
	if err := ValidateSchedule(s.settings.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.settings.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.settings.Schedule, func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	s.log.Info("maintenance scheduler started",
		logger.String("schedule", s.settings.Schedule),
		logger.Any("next_run", s.cron.Entry(entryID).Next))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and stops the scheduler.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.log.Info("maintenance scheduler stopped")
}

// RunNow triggers an immediate run in the background.
func (s *MaintenanceScheduler) RunNow(ctx context.Context) {
	go s.run(context.WithoutCancel(ctx))
}

func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next run will occur, nil when stopped.
func (s *MaintenanceScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	t := s.cron.Entry(s.entryID).Next
	return &t
}

func (s *MaintenanceScheduler) run(ctx context.Context) {
	if s.queue != nil {
		jobs := []backlite.Task{tasks.PrunePhotosTask{}}
		if s.settings.AuditRetentionDays > 0 {
			jobs = append(jobs, tasks.CleanupAuditEventsTask{RetentionDays: s.settings.AuditRetentionDays})
		}
		ids, err := s.queue.Enqueue(ctx, jobs...)
		if err != nil {
			s.log.Error("failed to enqueue maintenance", logger.Error(err))
			s.record(ctx, "Failed to enqueue maintenance", err)
			return
		}
		s.log.Info("maintenance enqueued", logger.Any("task_ids", ids))
		return
	}

	if s.pruner != nil {
		start := time.Now()
		removed, err := s.pruner.PruneOrphanPhotos(ctx)
		if err != nil {
			s.log.Error("photo sweep failed", logger.Int("removed", removed), logger.Error(err))
		} else {
			s.log.Info("photo sweep finished",
				logger.Int("removed", removed),
				logger.Duration("took", time.Since(start).Round(time.Millisecond)))
		}
	}

	if s.cleaner != nil && s.settings.AuditRetentionDays > 0 {
		deleted, err := s.cleaner.Cleanup(ctx, s.settings.AuditRetentionDays)
		if err != nil {
			s.log.Error("audit cleanup failed", logger.Error(err))
			return
		}
		s.log.Info("audit cleanup finished", logger.Int64("deleted", deleted))
	}
}

func (s *MaintenanceScheduler) record(ctx context.Context, description string, err error) {
	if s.auditor == nil {
		return
	}
	s.auditor.Record(ctx, entities.AuditActionPhotoPrune, 0, description, err)
}
