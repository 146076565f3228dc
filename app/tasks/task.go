package tasks

import (
	"context"
	"time"

	"github.com/rs/xid"
)

type TaskType string

const (
	TaskTypeImportRecipe TaskType = "import_recipe"
)

const (
	DefaultMaxRetries = 3
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	Finish(err error)
	GetID() string
	GetType() TaskType
	GetSourceURL() string
	GetRetryCount() int
	GetMaxRetries() int
	IncrementRetryCount()
	CanRetry() bool
	Start()
	GetDuration() time.Duration
}

type Task struct {
	ID         string
	Type       TaskType
	SourceURL  string
	RetryCount int
	MaxRetries int
	StartedAt  *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetSourceURL() string {
	return t.SourceURL
}

func (t *Task) GetRetryCount() int {
	return t.RetryCount
}

func (t *Task) GetMaxRetries() int {
	return t.MaxRetries
}

func (t *Task) IncrementRetryCount() {
	t.RetryCount++
}

func (t *Task) CanRetry() bool {
	return t.RetryCount < t.MaxRetries
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

// Finish is called once the scheduler is done with the task, successfully or not.
func (t *Task) Finish(err error) {}

func NewTask(taskType TaskType, sourceURL string) Task {
	return Task{
		ID:         xid.New().String(),
		Type:       taskType,
		SourceURL:  sourceURL,
		RetryCount: 0,
		MaxRetries: DefaultMaxRetries,
	}
}
