package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lysyi3m/feast/app/shopping"
)

const dateLayout = "2006-01-02"

// MealPlanRepository handles database operations for planned meals
type MealPlanRepository struct {
	db *DB
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *DB) *MealPlanRepository {
	return &MealPlanRepository{db: db}
}

// CreateMealPlan schedules a recipe on a date (YYYY-MM-DD)
func (r *MealPlanRepository) CreateMealPlan(ctx context.Context, date, mealType, recipeID string, servings int) (*MealPlan, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	if servings <= 0 {
		return nil, fmt.Errorf("servings must be positive, got %d", servings)
	}

	plan := &MealPlan{
		ID:        uuid.NewString(),
		Date:      date,
		MealType:  mealType,
		RecipeID:  recipeID,
		Servings:  servings,
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO meal_plans (id, date, meal_type, recipe_id, servings, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, plan.ID, plan.Date, plan.MealType, plan.RecipeID, plan.Servings, formatTime(plan.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert meal plan: %w", err)
	}

	return plan, nil
}

// ListMealPlans returns plans between start and end inclusive
func (r *MealPlanRepository) ListMealPlans(ctx context.Context, start, end string) ([]MealPlan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, meal_type, recipe_id, servings, created_at
		FROM meal_plans
		WHERE date >= ? AND date <= ?
		ORDER BY date, created_at
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	defer rows.Close()

	var plans []MealPlan
	for rows.Next() {
		var plan MealPlan
		var createdAt string
		if err := rows.Scan(&plan.ID, &plan.Date, &plan.MealType, &plan.RecipeID, &plan.Servings, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan row: %w", err)
		}
		plan.CreatedAt = parseTime(createdAt)
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meal plan rows: %w", err)
	}

	return plans, nil
}

// GetIngredientUsage lists every ingredient of every planned meal in the range,
// with the multiplier from the recipe's servings to the planned servings.
func (r *MealPlanRepository) GetIngredientUsage(ctx context.Context, start, end string) ([]shopping.Usage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ri.name, ri.quantity, ri.unit, ri.category, r.id, mp.servings, r.servings
		FROM meal_plans mp
		JOIN recipes r ON r.id = mp.recipe_id
		JOIN recipe_ingredients ri ON ri.recipe_id = r.id
		WHERE mp.date >= ? AND mp.date <= ?
		ORDER BY mp.date, mp.created_at, ri.position
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient usage: %w", err)
	}
	defer rows.Close()

	var usages []shopping.Usage
	for rows.Next() {
		var u shopping.Usage
		var planned, base int
		if err := rows.Scan(&u.Name, &u.Quantity, &u.Unit, &u.Category, &u.RecipeID, &planned, &base); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		u.ServingsMultiplier = shopping.ServingsMultiplier(planned, base)
		usages = append(usages, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage rows: %w", err)
	}

	return usages, nil
}
