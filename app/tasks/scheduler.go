package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/feast/app/fetcher"
	cronlib "github.com/robfig/cron/v3"
)

const (
	DefaultQueueSize     = 300
	DefaultPruneSchedule = "@every 10m"
	taskTimeout          = 5 * time.Minute
	maxRetryDelay        = 30 * time.Second
	statusRetention      = time.Hour
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	tracker     *StatusTracker
	workerCount int
	retryBase   time.Duration
	pruneSpec   string
	cron        *cronlib.Cron
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(workerCount, queueSize int, tracker *StatusTracker) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if workerCount <= 0 {
		workerCount = 1
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	return &Scheduler{
		tracker:     tracker,
		workerCount: workerCount,
		retryBase:   time.Second,
		pruneSpec:   DefaultPruneSchedule,
		cron:        cronlib.New(),
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, queueSize),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	if s.tracker == nil {
		return
	}

	if _, err := s.cron.AddFunc(s.pruneSpec, s.pruneStatuses); err != nil {
		slog.Error("Invalid prune schedule, finished imports will not be pruned", "schedule", s.pruneSpec, "error", err)
		return
	}
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.cancel()
	s.wg.Wait()
}

// SetPruneSchedule replaces the cron spec used to drop finished import statuses.
// It must be called before Start.
func (s *Scheduler) SetPruneSchedule(spec string) error {
	if _, err := cronlib.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", spec, err)
	}
	s.pruneSpec = spec
	return nil
}

func (s *Scheduler) pruneStatuses() {
	if removed := s.tracker.Prune(time.Now().UTC().Add(-statusRetention)); removed > 0 {
		slog.Debug("Pruned finished import statuses", "count", removed)
	}
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if s.ctx.Err() != nil {
		return s.ctx.Err()
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		task.Finish(nil)
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !fetcher.IsTransient(err) {
		task.Finish(err)
		return
	}

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		task.Finish(err)
		return
	}

	task.IncrementRetryCount()
	retryDelay := s.retryDelay(task.GetRetryCount())

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			task.Finish(err)
		case <-time.After(retryDelay):
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
				task.Finish(err)
			}
		}
	}()
}

// retryDelay doubles per attempt starting at retryBase, capped at 30s.
func (s *Scheduler) retryDelay(attempt int) time.Duration {
	delay := s.retryBase << uint(attempt-1)
	if delay > maxRetryDelay || delay <= 0 {
		delay = maxRetryDelay
	}
	return delay
}
