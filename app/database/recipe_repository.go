package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lysyi3m/feast/app/recipe"
)

// RecipeRepository handles database operations for imported recipes
type RecipeRepository struct {
	db *DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

const recipeColumns = `id, name, description, prep_minutes, cook_minutes, total_minutes, servings,
	image_url, author, category, cuisine, instructions, COALESCE(source_url, ''), site_name,
	created_at, updated_at`

// CreateRecipe stores a parsed recipe together with its ingredients
func (r *RecipeRepository) CreateRecipe(ctx context.Context, parsed *recipe.Recipe, sourceURL, siteName string) (*Recipe, error) {
	instructions, err := json.Marshal(parsed.Instructions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode instructions: %w", err)
	}

	now := time.Now().UTC()
	stored := &Recipe{
		ID:        uuid.NewString(),
		Recipe:    *parsed,
		SourceURL: sourceURL,
		SiteName:  siteName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var source any
	if sourceURL != "" {
		source = sourceURL
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recipes (id, name, description, prep_minutes, cook_minutes, total_minutes, servings,
			image_url, author, category, cuisine, instructions, source_url, site_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, stored.ID, parsed.Name, parsed.Description, parsed.PrepMinutes, parsed.CookMinutes, parsed.TotalMinutes,
		parsed.Servings, parsed.ImageURL, parsed.Author, parsed.Category, parsed.Cuisine, string(instructions),
		source, siteName, formatTime(now), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("failed to insert recipe: %w", err)
	}

	for i, ing := range parsed.Ingredients {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, position, name, quantity, unit)
			VALUES (?, ?, ?, ?, ?)
		`, stored.ID, i, ing.Name, ing.Quantity, ing.Unit)
		if err != nil {
			return nil, fmt.Errorf("failed to insert ingredient: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit recipe: %w", err)
	}

	return stored, nil
}

// GetRecipe returns nil when no recipe has the given id
func (r *RecipeRepository) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)
	return r.scanWithIngredients(ctx, row, "get recipe")
}

// FindBySourceURL returns the recipe previously imported from sourceURL, if any
func (r *RecipeRepository) FindBySourceURL(ctx context.Context, sourceURL string) (*Recipe, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE source_url = ?`, sourceURL)
	return r.scanWithIngredients(ctx, row, "find recipe by source URL")
}

// ListRecipes returns all recipes without their ingredients, newest first
func (r *RecipeRepository) ListRecipes(ctx context.Context) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+recipeColumns+` FROM recipes ORDER BY created_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		recipes = append(recipes, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipe rows: %w", err)
	}

	return recipes, nil
}

// DeleteRecipe removes a recipe; ingredients and meal plans cascade
func (r *RecipeRepository) DeleteRecipe(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete recipe: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return n > 0, nil
}

func (r *RecipeRepository) GetRecipeCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*Recipe, error) {
	var rec Recipe
	var instructions, createdAt, updatedAt string

	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Description, &rec.PrepMinutes, &rec.CookMinutes, &rec.TotalMinutes,
		&rec.Servings, &rec.ImageURL, &rec.Author, &rec.Category, &rec.Cuisine, &instructions,
		&rec.SourceURL, &rec.SiteName, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(instructions), &rec.Instructions); err != nil {
		return nil, fmt.Errorf("failed to decode instructions: %w", err)
	}
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)

	return &rec, nil
}

func (r *RecipeRepository) scanWithIngredients(ctx context.Context, row *sql.Row, operation string) (*Recipe, error) {
	rec, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", operation, err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT name, quantity, unit
		FROM recipe_ingredients
		WHERE recipe_id = ?
		ORDER BY position
	`, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ing recipe.Ingredient
		if err := rows.Scan(&ing.Name, &ing.Quantity, &ing.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient row: %w", err)
		}
		rec.Ingredients = append(rec.Ingredients, ing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingredient rows: %w", err)
	}

	return rec, nil
}
