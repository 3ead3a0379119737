package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/lending/internal/tasks"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a standard five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// TaskEnqueuer hands a task to the background queue.
type TaskEnqueuer interface {
	Enqueue(task backlite.Task) (string, error)
}

// SweepStatus describes the scheduler and its most recent run.
type SweepStatus struct {
	Running   bool       `json:"running"`
	Schedule  string     `json:"schedule"`
	DryRun    bool       `json:"dry_run"`
	NextRun   *time.Time `json:"next_run,omitempty"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastTask  string     `json:"last_task_id,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// OrphanSweepScheduler periodically removes orphaned join rows.
// When a task queue is available the sweep is enqueued there; otherwise it
// runs inline on the cron goroutine.
type OrphanSweepScheduler struct {
	sweeper  tasks.OrphanSweeper
	queue    TaskEnqueuer
	schedule string
	dryRun   bool

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	lastRun   *time.Time
	lastTask  string
	lastError string
}

// NewOrphanSweepScheduler creates a new scheduler instance. queue may be nil.
func NewOrphanSweepScheduler(sweeper tasks.OrphanSweeper, queue TaskEnqueuer, schedule string, dryRun bool) *OrphanSweepScheduler {
	return &OrphanSweepScheduler{
		sweeper:  sweeper,
		queue:    queue,
		schedule: schedule,
		dryRun:   dryRun,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start registers the sweep job and starts the cron loop. The scheduler
// stops by itself when ctx is cancelled.
func (s *OrphanSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runSweep(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sweep job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Orphan sweep scheduler: started with schedule '%s' (dry run: %t)", s.schedule, s.dryRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running sweep to finish and stops the cron loop.
func (s *OrphanSweepScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	entryID, cancel := s.entryID, s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// The job takes s.mu to record its outcome, so wait without holding it.
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron.Remove(entryID)

	if cancel != nil {
		cancel()
	}

	log.Printf("Orphan sweep scheduler: stopped")
}

// RunNow triggers a sweep immediately, outside the schedule.
func (s *OrphanSweepScheduler) RunNow(ctx context.Context) error {
	return s.runSweep(ctx)
}

// IsRunning returns whether the scheduler is active.
func (s *OrphanSweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Status reports the schedule, the next planned run and the last outcome.
func (s *OrphanSweepScheduler) Status() SweepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := SweepStatus{
		Running:   s.isRunning,
		Schedule:  s.schedule,
		DryRun:    s.dryRun,
		LastRun:   s.lastRun,
		LastTask:  s.lastTask,
		LastError: s.lastError,
	}
	if s.isRunning {
		next := s.cron.Entry(s.entryID).Next
		status.NextRun = &next
	}
	return status
}

func (s *OrphanSweepScheduler) runSweep(ctx context.Context) error {
	var (
		taskID string
		err    error
	)

	if s.queue != nil {
		taskID, err = s.queue.Enqueue(tasks.SweepOrphansTask{DryRun: s.dryRun})
		if err == nil {
			log.Printf("Orphan sweep: enqueued task %s", taskID)
		}
	} else {
		err = tasks.SweepOrphansProcessor(s.sweeper)(ctx, tasks.SweepOrphansTask{DryRun: s.dryRun})
	}

	if err != nil {
		log.Printf("Orphan sweep: failed: %v", err)
	}

	now := time.Now()
	s.mu.Lock()
	s.lastRun = &now
	s.lastTask = taskID
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
	s.mu.Unlock()

	return err
}
