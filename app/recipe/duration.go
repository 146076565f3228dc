package recipe

import (
	"strconv"
	"strings"
)

// ParseDuration converts an ISO-8601 duration such as PT1H30M into minutes.
// Seconds are dropped and anything unparseable contributes nothing.
func ParseDuration(s string) int {
	rest, ok := strings.CutPrefix(s, "P")
	if !ok {
		return 0
	}
	rest = strings.TrimPrefix(rest, "T")

	total := 0
	var digits strings.Builder

	for _, r := range rest {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			continue
		}

		n, _ := strconv.Atoi(digits.String())
		digits.Reset()

		switch r {
		case 'H':
			total += n * 60
		case 'M':
			total += n
		}
	}

	return total
}
