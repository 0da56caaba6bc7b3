package recipebuilder

import (
	"context"
	"net/http"

	"recipebuilder/recipe"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Publisher delivers a finished recipe card somewhere outside the process.
type Publisher interface {
	Publish(ctx context.Context, card recipe.Card) error
}
