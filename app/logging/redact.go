package logging

import (
	"fmt"
	"net/url"
	"unicode/utf8"
)

const (
	maxLoggedLength = 100
	truncatedLength = 50
)

// RedactString shortens long values so page bodies and user text stay out of logs.
func RedactString(s string) string {
	n := utf8.RuneCountInString(s)
	if n <= maxLoggedLength {
		return s
	}
	return fmt.Sprintf("%s... (%d chars)", string([]rune(s)[:truncatedLength]), n)
}

// RedactURL keeps scheme, host and path. Query strings often carry tokens.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return RedactString(raw)
	}
	return RedactString(u.Scheme + "://" + u.Host + u.Path)
}

func RedactUserContent(s string) string {
	return fmt.Sprintf("<%d chars>", utf8.RuneCountInString(s))
}

func FormatCount(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
