package units

import "strings"

type Category int

const (
	Volume Category = iota
	Weight
	Count
	Other
)

func (c Category) String() string {
	switch c {
	case Volume:
		return "volume"
	case Weight:
		return "weight"
	case Count:
		return "count"
	default:
		return "other"
	}
}

var categories = map[string]Category{
	"cup": Volume, "cups": Volume, "c": Volume,
	"tablespoon": Volume, "tablespoons": Volume, "tbsp": Volume, "tbs": Volume,
	"teaspoon": Volume, "teaspoons": Volume, "tsp": Volume,
	"ml": Volume, "milliliter": Volume, "milliliters": Volume,
	"l": Volume, "liter": Volume, "liters": Volume,
	"fl oz": Volume, "fluid ounce": Volume, "fluid ounces": Volume,
	"pint": Volume, "pints": Volume, "pt": Volume,
	"quart": Volume, "quarts": Volume, "qt": Volume,
	"gallon": Volume, "gallons": Volume, "gal": Volume,

	"g": Weight, "gram": Weight, "grams": Weight,
	"kg": Weight, "kilogram": Weight, "kilograms": Weight,
	"oz": Weight, "ounce": Weight, "ounces": Weight,
	"lb": Weight, "lbs": Weight, "pound": Weight, "pounds": Weight,

	"": Count, "whole": Count, "piece": Count, "pieces": Count,
	"clove": Count, "cloves": Count,
	"slice": Count, "slices": Count,
	"can": Count, "cans": Count,
	"bunch": Count, "bunches": Count,
	"head": Count, "heads": Count,
	"stalk": Count, "stalks": Count,
	"sprig": Count, "sprigs": Count,
}

// Factors to the category base: millilitres for volume, grams for weight.
var baseFactors = map[string]float64{
	"ml": 1, "milliliter": 1, "milliliters": 1,
	"l": 1000, "liter": 1000, "liters": 1000,
	"tsp": 4.929, "teaspoon": 4.929, "teaspoons": 4.929,
	"tbsp": 14.787, "tbs": 14.787, "tablespoon": 14.787, "tablespoons": 14.787,
	"fl oz": 29.574, "fluid ounce": 29.574, "fluid ounces": 29.574,
	"cup": 236.588, "cups": 236.588, "c": 236.588,
	"pint": 473.176, "pints": 473.176, "pt": 473.176,
	"quart": 946.353, "quarts": 946.353, "qt": 946.353,
	"gallon": 3785.41, "gallons": 3785.41, "gal": 3785.41,

	"g": 1, "gram": 1, "grams": 1,
	"kg": 1000, "kilogram": 1000, "kilograms": 1000,
	"oz": 28.3495, "ounce": 28.3495, "ounces": 28.3495,
	"lb": 453.592, "lbs": 453.592, "pound": 453.592, "pounds": 453.592,
}

var canonical = map[string]string{
	"c": "cup", "cups": "cup",
	"tbs": "tbsp", "tablespoon": "tbsp", "tablespoons": "tbsp",
	"teaspoon": "tsp", "teaspoons": "tsp",
	"milliliter": "ml", "milliliters": "ml",
	"l": "L", "liter": "L", "liters": "L",
	"fluid ounce": "fl oz", "fluid ounces": "fl oz",
	"pints": "pint", "pt": "pint",
	"quarts": "quart", "qt": "quart",
	"gallons": "gallon", "gal": "gallon",
	"gram": "g", "grams": "g",
	"kilogram": "kg", "kilograms": "kg",
	"ounce": "oz", "ounces": "oz",
	"pound": "lb", "pounds": "lb", "lbs": "lb",
	"piece": "", "pieces": "",
}

func key(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// CategoryOf classifies a unit spelling. Matching is case-insensitive.
func CategoryOf(unit string) Category {
	if c, ok := categories[key(unit)]; ok {
		return c
	}
	return Other
}

// Normalize maps spelling variants onto one display form ("cups" and "c" become "cup").
// Unknown units come back lowercased.
func Normalize(unit string) string {
	k := key(unit)
	if n, ok := canonical[k]; ok {
		return n
	}
	return k
}

func baseFactor(unit string) (float64, bool) {
	f, ok := baseFactors[key(unit)]
	return f, ok
}

// Convert expresses quantity in another unit of the same category.
// Count and Other units only convert to their own normalized spelling.
func Convert(quantity float64, from, to string) (float64, bool) {
	category := CategoryOf(from)
	if category != CategoryOf(to) {
		return 0, false
	}

	if category == Count || category == Other {
		if Normalize(from) == Normalize(to) {
			return quantity, true
		}
		return 0, false
	}

	fromFactor, ok := baseFactor(from)
	if !ok {
		return 0, false
	}
	toFactor, ok := baseFactor(to)
	if !ok {
		return 0, false
	}

	return quantity * fromFactor / toFactor, true
}
