package recipe

import "errors"

var (
	ErrNoJSONLDFound        = errors.New("no JSON-LD data found on page")
	ErrNoRecipeFound        = errors.New("no Recipe found in JSON-LD data")
	ErrMultipleRecipesFound = errors.New("multiple recipes found on page")
	ErrMalformedRecipe      = errors.New("recipe data is malformed")
)

// MalformedRecipeError reports which required field could not be mapped.
// It matches ErrMalformedRecipe under errors.Is.
type MalformedRecipeError struct {
	Reason string
}

func (e *MalformedRecipeError) Error() string {
	return ErrMalformedRecipe.Error() + ": " + e.Reason
}

func (e *MalformedRecipeError) Is(target error) bool {
	return target == ErrMalformedRecipe
}

func malformed(reason string) error {
	return &MalformedRecipeError{Reason: reason}
}
