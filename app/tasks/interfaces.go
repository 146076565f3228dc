package tasks

import (
	"context"

	"github.com/lysyi3m/feast/app/database"
)

// TaskSchedulerInterface is what the HTTP layer needs from the background worker pool.
//
//	scheduler := NewScheduler(workerCount, queueSize)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewImportRecipeTask(url, importer, tracker))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

type RecipeImporter interface {
	Run(ctx context.Context, rawURL string) (*database.Recipe, error)
}
