package recipe

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// MapRecipe normalizes a Schema.org Recipe object.
func MapRecipe(obj map[string]any) (*Recipe, error) {
	name, ok := obj["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return nil, malformed("missing name")
	}

	rawIngredients, ok := obj["recipeIngredient"].([]any)
	if !ok {
		return nil, malformed("missing ingredients")
	}

	ingredients := make([]Ingredient, 0, len(rawIngredients))
	for _, v := range rawIngredients {
		line, ok := v.(string)
		if !ok {
			continue
		}
		ing := ParseIngredientLine(line)
		if ing.Name == "" {
			continue
		}
		ingredients = append(ingredients, ing)
	}
	if len(ingredients) == 0 {
		return nil, malformed("no valid ingredients")
	}

	instructions := mapInstructions(obj["recipeInstructions"])
	if len(instructions) == 0 {
		return nil, malformed("missing instructions")
	}

	return &Recipe{
		Name:         decodeText(name),
		Description:  decodeText(stringField(obj, "description")),
		PrepMinutes:  ParseDuration(stringField(obj, "prepTime")),
		CookMinutes:  ParseDuration(stringField(obj, "cookTime")),
		TotalMinutes: ParseDuration(stringField(obj, "totalTime")),
		Servings:     mapServings(obj["recipeYield"]),
		ImageURL:     mapImage(obj["image"]),
		Ingredients:  ingredients,
		Instructions: instructions,
		Author:       decodeText(mapAuthor(obj["author"])),
		Category:     decodeText(firstString(obj["recipeCategory"])),
		Cuisine:      decodeText(firstString(obj["recipeCuisine"])),
	}, nil
}

func mapInstructions(v any) []string {
	var steps []string

	add := func(text string) {
		if text = decodeText(text); text != "" {
			steps = append(steps, text)
		}
	}

	switch node := v.(type) {
	case string:
		add(node)
	case []any:
		for _, item := range node {
			switch step := item.(type) {
			case string:
				add(step)
			case map[string]any:
				switch step["@type"] {
				case "HowToStep":
					add(stringField(step, "text"))
				case "HowToSection":
					elements, _ := step["itemListElement"].([]any)
					for _, el := range elements {
						if sub, ok := el.(map[string]any); ok {
							add(stringField(sub, "text"))
						}
					}
				}
			}
		}
	}

	return steps
}

func mapServings(v any) int {
	servings := 0

	switch y := v.(type) {
	case string:
		servings = leadingNumber(y)
	case float64:
		servings = int(y)
	case []any:
		if len(y) > 0 {
			switch first := y[0].(type) {
			case string:
				servings = leadingNumber(first)
			case float64:
				servings = int(first)
			}
		}
	}

	if servings <= 0 {
		return DefaultServings
	}
	return servings
}

// leadingNumber returns the leading integer of s, or the first run of digits
// anywhere in it ("Makes 12" is 12). Zero means none was found.
func leadingNumber(s string) int {
	s = strings.TrimSpace(s)

	start := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if start < 0 {
		return 0
	}
	end := start
	for end < len(s) && isDigit(s[end]) {
		end++
	}

	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0
	}
	return n
}

func mapImage(v any) string {
	switch img := v.(type) {
	case string:
		return absoluteURL(img)
	case []any:
		for _, item := range img {
			var candidate string
			switch entry := item.(type) {
			case string:
				candidate = entry
			case map[string]any:
				candidate = stringField(entry, "url")
			}
			if u := absoluteURL(candidate); u != "" {
				return u
			}
		}
	case map[string]any:
		return absoluteURL(stringField(img, "url"))
	}
	return ""
}

func absoluteURL(s string) string {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return ""
}

func mapAuthor(v any) string {
	switch a := v.(type) {
	case string:
		return a
	case map[string]any:
		return stringField(a, "name")
	case []any:
		if len(a) > 0 {
			return mapAuthor(a[0])
		}
	}
	return ""
}

func firstString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []any:
		if len(s) > 0 {
			first, _ := s[0].(string)
			return first
		}
	}
	return ""
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func decodeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}
