package recipe

const DefaultServings = 4

type Ingredient struct {
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Unit     string  `json:"unit" yaml:"unit"`
	Name     string  `json:"name" yaml:"name"`
}

// Recipe is the normalized form of a Schema.org Recipe object.
// Optional text fields are empty when the source omitted them.
type Recipe struct {
	Name         string       `json:"name" yaml:"name"`
	Description  string       `json:"description" yaml:"description"`
	PrepMinutes  int          `json:"prep_minutes" yaml:"prep_minutes"`
	CookMinutes  int          `json:"cook_minutes" yaml:"cook_minutes"`
	TotalMinutes int          `json:"total_minutes" yaml:"total_minutes"`
	Servings     int          `json:"servings" yaml:"servings"`
	ImageURL     string       `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Ingredients  []Ingredient `json:"ingredients" yaml:"ingredients"`
	Instructions []string     `json:"instructions" yaml:"instructions"`
	Author       string       `json:"author,omitempty" yaml:"author,omitempty"`
	Category     string       `json:"category,omitempty" yaml:"category,omitempty"`
	Cuisine      string       `json:"cuisine,omitempty" yaml:"cuisine,omitempty"`
}
