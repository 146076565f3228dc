package database

import (
	"context"

	"github.com/lysyi3m/feast/app/recipe"
	"github.com/lysyi3m/feast/app/shopping"
)

var (
	_ RecipeRepositoryInterface   = (*RecipeRepository)(nil)
	_ MealPlanRepositoryInterface = (*MealPlanRepository)(nil)
)

type RecipeRepositoryInterface interface {
	CreateRecipe(ctx context.Context, r *recipe.Recipe, sourceURL, siteName string) (*Recipe, error)
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	ListRecipes(ctx context.Context) ([]Recipe, error)
	FindBySourceURL(ctx context.Context, sourceURL string) (*Recipe, error)
	DeleteRecipe(ctx context.Context, id string) (bool, error)
	GetRecipeCount(ctx context.Context) (int, error)
}

type MealPlanRepositoryInterface interface {
	CreateMealPlan(ctx context.Context, date, mealType, recipeID string, servings int) (*MealPlan, error)
	ListMealPlans(ctx context.Context, start, end string) ([]MealPlan, error)
	GetIngredientUsage(ctx context.Context, start, end string) ([]shopping.Usage, error)
}
