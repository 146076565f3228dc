package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dyatlov/go-opengraph/opengraph"
	"github.com/lysyi3m/feast/app/database"
	"github.com/lysyi3m/feast/app/logging"
	"github.com/lysyi3m/feast/app/recipe"
)

type PageFetcher interface {
	Run(ctx context.Context, rawURL string) (string, error)
}

type RecipeStore interface {
	FindBySourceURL(ctx context.Context, sourceURL string) (*database.Recipe, error)
	CreateRecipe(ctx context.Context, r *recipe.Recipe, sourceURL, siteName string) (*database.Recipe, error)
}

type Result struct {
	Recipe    *recipe.Recipe `json:"recipe" yaml:"recipe"`
	SourceURL string         `json:"source_url" yaml:"source_url"`
	SiteName  string         `json:"site_name,omitempty" yaml:"site_name,omitempty"`
}

type Importer struct {
	fetcher PageFetcher
	parser  *recipe.Parser
	store   RecipeStore
}

func NewImporter(fetcher PageFetcher, parser *recipe.Parser, store RecipeStore) *Importer {
	return &Importer{
		fetcher: fetcher,
		parser:  parser,
		store:   store,
	}
}

// Run imports the recipe at rawURL and stores it. A URL that was imported
// before yields a *DuplicateError carrying the existing recipe id.
func (i *Importer) Run(ctx context.Context, rawURL string) (*database.Recipe, error) {
	ctx, _ = logging.EnsureCorrelationID(ctx)
	log := logging.FromContext(ctx)
	start := time.Now()

	sourceURL := strings.TrimSpace(rawURL)
	if sourceURL == "" {
		return nil, ErrEmptyURL
	}

	existing, err := i.store.FindBySourceURL(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicates: %w", err)
	}
	if existing != nil {
		log.Info("Recipe already imported", "url", logging.RedactURL(sourceURL), "recipe_id", existing.ID)
		return nil, &DuplicateError{RecipeID: existing.ID}
	}

	result, err := i.Parse(ctx, sourceURL)
	if err != nil {
		log.Warn("Import failed", "url", logging.RedactURL(sourceURL), "error", err)
		return nil, err
	}

	stored, err := i.store.CreateRecipe(ctx, result.Recipe, result.SourceURL, result.SiteName)
	if err != nil {
		return nil, fmt.Errorf("failed to store recipe: %w", err)
	}

	log.Info("Import completed",
		"url", logging.RedactURL(sourceURL),
		"recipe_id", stored.ID,
		"name", logging.RedactString(stored.Name),
		"ingredients", logging.FormatCount(len(stored.Ingredients), "ingredient"),
		"duration", time.Since(start))

	return stored, nil
}

// Parse fetches and parses a page without touching the store.
func (i *Importer) Parse(ctx context.Context, rawURL string) (*Result, error) {
	sourceURL := strings.TrimSpace(rawURL)
	if sourceURL == "" {
		return nil, ErrEmptyURL
	}

	html, err := i.fetcher.Run(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	parsed, err := i.parser.Run(html)
	if err != nil {
		return nil, err
	}

	return &Result{
		Recipe:    parsed,
		SourceURL: sourceURL,
		SiteName:  siteName(html),
	}, nil
}

func siteName(html string) string {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(html)); err != nil {
		return ""
	}
	return strings.TrimSpace(og.SiteName)
}
