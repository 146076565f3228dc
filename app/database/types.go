package database

import (
	"time"

	"github.com/lysyi3m/feast/app/recipe"
)

type Recipe struct {
	ID string `json:"id"`
	recipe.Recipe
	SourceURL string    `json:"source_url,omitempty"`
	SiteName  string    `json:"site_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MealPlan struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	MealType  string    `json:"meal_type"`
	RecipeID  string    `json:"recipe_id"`
	Servings  int       `json:"servings"`
	CreatedAt time.Time `json:"created_at"`
}
