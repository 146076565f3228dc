package shopping

// Usage is one ingredient line drawn from a planned meal.
type Usage struct {
	Name               string  `json:"name" yaml:"name"`
	Quantity           float64 `json:"quantity" yaml:"quantity"`
	Unit               string  `json:"unit" yaml:"unit"`
	Category           string  `json:"category,omitempty" yaml:"category,omitempty"`
	RecipeID           string  `json:"recipe_id,omitempty" yaml:"recipe_id,omitempty"`
	ServingsMultiplier float64 `json:"servings_multiplier,omitempty" yaml:"servings_multiplier,omitempty"`
}

type Item struct {
	Name            string   `json:"name" yaml:"name"`
	Quantity        float64  `json:"quantity" yaml:"quantity"`
	Unit            string   `json:"unit" yaml:"unit"`
	Category        string   `json:"category" yaml:"category"`
	SourceRecipeIDs []string `json:"source_recipe_ids" yaml:"source_recipe_ids"`
	IsConverted     bool     `json:"is_converted" yaml:"is_converted"`
}
