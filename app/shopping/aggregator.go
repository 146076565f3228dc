package shopping

import (
	"slices"
	"strings"

	"github.com/lysyi3m/feast/app/units"
	"golang.org/x/text/cases"
)

type Aggregator struct{}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

type group struct {
	name         string
	category     string
	recipeIDs    []string
	observations []units.Observation
}

// Run merges usages of the same ingredient (names compared case-insensitively)
// into shopping items, sorted by category and then name.
func (a *Aggregator) Run(usages []Usage) []Item {
	fold := cases.Fold()
	var order []string
	groups := make(map[string]*group)

	for _, u := range usages {
		name := strings.TrimSpace(u.Name)
		if name == "" {
			continue
		}

		key := fold.String(name)

		g, ok := groups[key]
		if !ok {
			g = &group{name: name, category: u.Category}
			groups[key] = g
			order = append(order, key)
		}
		if g.category == "" {
			g.category = u.Category
		}
		if u.RecipeID != "" && !slices.Contains(g.recipeIDs, u.RecipeID) {
			g.recipeIDs = append(g.recipeIDs, u.RecipeID)
		}

		multiplier := u.ServingsMultiplier
		if multiplier <= 0 {
			multiplier = 1
		}
		g.observations = append(g.observations, units.Observation{
			Quantity: u.Quantity * multiplier,
			Unit:     u.Unit,
		})
	}

	var items []Item
	for _, key := range order {
		g := groups[key]
		for _, q := range units.AggregateQuantities(g.observations) {
			items = append(items, Item{
				Name:            g.name,
				Quantity:        q.Quantity,
				Unit:            q.Unit,
				Category:        g.category,
				SourceRecipeIDs: slices.Clone(g.recipeIDs),
				IsConverted:     q.IsConverted,
			})
		}
	}

	slices.SortStableFunc(items, func(x, y Item) int {
		if c := compareCategory(x.Category, y.Category); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(x.Name), strings.ToLower(y.Name))
	})

	return items
}

// Uncategorized items go last.
func compareCategory(x, y string) int {
	switch {
	case x == y:
		return 0
	case x == "":
		return 1
	case y == "":
		return -1
	}
	return strings.Compare(strings.ToLower(x), strings.ToLower(y))
}

// ServingsMultiplier scales a recipe written for base servings to the planned count.
func ServingsMultiplier(planned, base int) float64 {
	if base <= 0 || planned <= 0 {
		return 1
	}
	return float64(planned) / float64(base)
}
