package importer

import (
	"errors"
	"fmt"

	"github.com/lysyi3m/feast/app/fetcher"
	"github.com/lysyi3m/feast/app/recipe"
)

var ErrEmptyURL = errors.New("empty URL")

type DuplicateError struct {
	RecipeID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("recipe already imported as %s", e.RecipeID)
}

// UserMessage turns an import failure into text suitable for showing to the user.
func UserMessage(err error) string {
	var (
		invalidURL  *fetcher.InvalidURLError
		scheme      *fetcher.InvalidSchemeError
		conn        *fetcher.ConnectionError
		timeout     *fetcher.TimeoutError
		redirects   *fetcher.TooManyRedirectsError
		httpErr     *fetcher.HTTPError
		contentType *fetcher.InvalidContentTypeError
		tooLarge    *fetcher.ResponseTooLargeError
		readErr     *fetcher.ReadError
		malformed   *recipe.MalformedRecipeError
		duplicate   *DuplicateError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyURL), errors.As(err, &invalidURL), errors.As(err, &scheme):
		return "Please enter a valid website URL"
	case errors.As(err, &duplicate):
		return "A recipe from this URL has already been imported"
	case errors.As(err, &conn), errors.As(err, &redirects):
		return "Could not connect to the website"
	case errors.As(err, &timeout):
		return "The website took too long to respond"
	case errors.As(err, &httpErr):
		return fmt.Sprintf("The website returned an error (HTTP %d)", httpErr.Status)
	case errors.As(err, &contentType):
		return "This URL does not appear to be a recipe page"
	case errors.As(err, &tooLarge):
		return "The page is too large to process"
	case errors.As(err, &readErr):
		return "Could not read the website response"
	case errors.Is(err, recipe.ErrNoJSONLDFound), errors.Is(err, recipe.ErrNoRecipeFound):
		return "Could not find recipe data on this page"
	case errors.Is(err, recipe.ErrMultipleRecipesFound):
		return "This page contains multiple recipes. Please try a more specific URL"
	case errors.As(err, &malformed):
		return fmt.Sprintf("The recipe data on this page could not be read: %s", malformed.Reason)
	}

	return "Something went wrong while importing the recipe"
}
