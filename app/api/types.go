package api

import (
	"context"

	"github.com/lysyi3m/feast/app/database"
	"github.com/lysyi3m/feast/app/importer"
	"github.com/lysyi3m/feast/app/recipe"
	"github.com/lysyi3m/feast/app/shopping"
	"github.com/lysyi3m/feast/app/tasks"
)

type ImporterInterface interface {
	Run(ctx context.Context, rawURL string) (*database.Recipe, error)
}

type ParserInterface interface {
	Run(html string) (*recipe.Recipe, error)
}

var (
	_ ImporterInterface = (*importer.Importer)(nil)
	_ ParserInterface   = (*recipe.Parser)(nil)
)

type Handler struct {
	recipeRepo   database.RecipeRepositoryInterface
	mealPlanRepo database.MealPlanRepositoryInterface
	importer     ImporterInterface
	parser       ParserInterface
	aggregator   *shopping.Aggregator
	scheduler    tasks.TaskSchedulerInterface
	tracker      *tasks.StatusTracker
}

type importRequest struct {
	URL string `json:"url"`
}

type mealPlanRequest struct {
	Date     string `json:"date" binding:"required"`
	MealType string `json:"meal_type"`
	RecipeID string `json:"recipe_id" binding:"required"`
	Servings int    `json:"servings"`
}
