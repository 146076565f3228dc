package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/feast/app/importer"
	"github.com/lysyi3m/feast/app/logging"
)

type ImportRecipeTask struct {
	Task
	CorrelationID string
	importer      RecipeImporter
	tracker       *StatusTracker
}

func NewImportRecipeTask(sourceURL string, importer RecipeImporter, tracker *StatusTracker) *ImportRecipeTask {
	t := &ImportRecipeTask{
		Task:          NewTask(TaskTypeImportRecipe, sourceURL),
		CorrelationID: logging.NewCorrelationID(),
		importer:      importer,
		tracker:       tracker,
	}
	t.tracker.Pending(t.ID, sourceURL)
	return t
}

func (t *ImportRecipeTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	t.tracker.Running(t.ID)

	ctx = logging.WithCorrelationID(ctx, t.CorrelationID)
	stored, err := t.importer.Run(ctx, t.SourceURL)
	if err != nil {
		return fmt.Errorf("failed to import recipe: %w", err)
	}

	t.tracker.Succeeded(t.ID, stored.ID)

	logging.FromContext(ctx).Info("Task completed",
		"type", t.GetType(),
		"url", logging.RedactURL(t.SourceURL),
		"recipe_id", stored.ID,
		"attempt", t.RetryCount+1,
		"duration", t.GetDuration())

	return nil
}

func (t *ImportRecipeTask) Finish(err error) {
	if err == nil {
		return
	}

	var dup *importer.DuplicateError
	if errors.As(err, &dup) {
		t.tracker.Failed(t.ID, dup.RecipeID, importer.UserMessage(err))
		return
	}

	slog.Debug("Import task finished with error", "id", t.ID, "correlation_id", t.CorrelationID, "error", err)
	t.tracker.Failed(t.ID, "", importer.UserMessage(err))
}
