package recipe

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const jsonLDSelector = `script[type="application/ld+json"]`

// ExtractJSONLDBlocks returns every ld+json script in the document that decodes as JSON.
// Blocks that fail to decode are skipped.
func ExtractJSONLDBlocks(html string) ([]any, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var blocks []any
	doc.Find(jsonLDSelector).Each(func(_ int, s *goquery.Selection) {
		var v any
		if err := json.Unmarshal([]byte(s.Text()), &v); err == nil {
			blocks = append(blocks, v)
		}
	})

	if len(blocks) == 0 {
		return nil, ErrNoJSONLDFound
	}

	return blocks, nil
}

// FindRecipeObject locates the single Recipe object across all blocks.
func FindRecipeObject(blocks []any) (map[string]any, error) {
	var matches []map[string]any
	for _, block := range blocks {
		collectRecipes(block, &matches)
	}

	switch len(matches) {
	case 0:
		return nil, ErrNoRecipeFound
	case 1:
		return matches[0], nil
	default:
		return nil, ErrMultipleRecipesFound
	}
}

func collectRecipes(v any, matches *[]map[string]any) {
	switch node := v.(type) {
	case map[string]any:
		if isRecipeType(node["@type"]) {
			*matches = append(*matches, node)
			return
		}
		if graph, ok := node["@graph"].([]any); ok {
			for _, child := range graph {
				collectRecipes(child, matches)
			}
		}
	case []any:
		for _, child := range node {
			collectRecipes(child, matches)
		}
	}
}

func isRecipeType(t any) bool {
	switch typ := t.(type) {
	case string:
		return typ == "Recipe"
	case []any:
		for _, v := range typ {
			if s, ok := v.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}
