package recipe

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Ordered so that longer spellings win over their prefixes ("cups" before "cup" before "c").
var unitSpellings = []string{
	// volume
	"cups", "cup", "c",
	"tablespoons", "tablespoon", "tbsp", "tbs", "tb",
	"teaspoons", "teaspoon", "tsp", "ts",
	"fluid ounces", "fluid ounce", "fl oz",
	"milliliters", "milliliter", "ml",
	"liters", "liter", "l",
	"pints", "pint", "pt",
	"quarts", "quart", "qt",
	"gallons", "gallon", "gal",
	// weight
	"pounds", "pound", "lbs", "lb",
	"ounces", "ounce", "oz",
	"kilograms", "kilogram", "kg",
	"grams", "gram", "g",
	// count
	"cloves", "clove",
	"slices", "slice",
	"pieces", "piece",
	"cans", "can",
	"bunches", "bunch",
	"heads", "head",
	"stalks", "stalk",
	"sprigs", "sprig",
	"packages", "package", "pkg",
	"pinches", "pinch",
	"dashes", "dash",
	// size words used in place of a unit
	"large", "medium", "small",
}

// ParseIngredientLine splits a free-text ingredient line into quantity, unit and name.
// It never fails: an unreadable quantity becomes 0 and an unknown unit stays in the name.
func ParseIngredientLine(s string) Ingredient {
	line := strings.TrimSpace(normalizeFractions(html.UnescapeString(s)))

	quantity, rest := splitQuantity(line)
	unit, name := splitUnit(strings.TrimSpace(rest))
	name = strings.TrimSpace(strings.TrimLeft(name, " ,"))

	if name == "" && unit != "" {
		name, unit = unit, ""
	}

	return Ingredient{
		Quantity: quantity,
		Unit:     unit,
		Name:     name,
	}
}

func splitQuantity(line string) (float64, string) {
	end := 0
	sawDigit := false

scan:
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case isDigit(c):
			sawDigit = true
		case c == '.' || c == '/' || c == '-':
		case c == ' ' && sawDigit && i+1 < len(line) && isDigit(line[i+1]):
		default:
			break scan
		}
		end = i + 1
	}

	if !sawDigit {
		return 0, line
	}

	return parseQuantity(line[:end]), line[end:]
}

// parseQuantity takes the lower bound of ranges ("3-4" is 3).
func parseQuantity(s string) float64 {
	s = strings.TrimSpace(s)

	if i := strings.Index(s, "-"); i > 0 {
		return parseQuantity(s[:i])
	}

	if parts := strings.Fields(s); len(parts) == 2 {
		whole, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			whole = 0
		}
		return whole + parseFraction(parts[1])
	}

	if strings.Contains(s, "/") {
		return parseFraction(s)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseFraction(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return v
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		n = 0
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil {
		d = 1
	}
	if d == 0 {
		return 0
	}
	return n / d
}

func splitUnit(text string) (string, string) {
	for _, u := range unitSpellings {
		if len(text) < len(u) || !strings.EqualFold(text[:len(u)], u) {
			continue
		}
		if len(text) == len(u) || isUnitBoundary(text[len(u)]) {
			return text[:len(u)], text[len(u):]
		}
	}

	// "(15 oz) can beans": drop the parenthetical and look again
	if strings.HasPrefix(text, "(") {
		if i := strings.Index(text, ")"); i >= 0 {
			return splitUnit(strings.TrimSpace(text[i+1:]))
		}
	}

	return "", text
}

func isUnitBoundary(c byte) bool {
	return c == ',' || c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// normalizeFractions rewrites vulgar fractions ("½", "1¾") into ASCII ("1/2", "1 3/4").
func normalizeFractions(s string) string {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}

	var b strings.Builder
	var prev rune

	for _, r := range s {
		if r == '⁄' {
			b.WriteByte('/')
			prev = '/'
			continue
		}

		if unicode.Is(unicode.No, r) {
			if d := norm.NFKC.String(string(r)); strings.ContainsRune(d, '⁄') {
				if prev >= '0' && prev <= '9' {
					b.WriteByte(' ')
				}
				b.WriteString(strings.ReplaceAll(d, "⁄", "/"))
				prev = '0'
				continue
			}
		}

		b.WriteRune(r)
		prev = r
	}

	return b.String()
}
