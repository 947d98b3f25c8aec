package ai

import (
	"context"
	"errors"

	"strollpath/internal/modules/route"
)

// ErrUnavailable is returned when the generative service is not configured or the call failed.
var ErrUnavailable = errors.New("ai service unavailable")

// DescriptionUnavailable is the placeholder text used when no model is configured.
const DescriptionUnavailable = "AI description generation is currently unavailable."

// Recommender defines the contract for the generative route assistant.
// It allows swapping the backing model provider.
type Recommender interface {
	// RecommendRoutes picks the IDs of the candidates that best match a free-text query.
	// An empty result is a valid answer.
	RecommendRoutes(ctx context.Context, query string, candidates []route.Summary) ([]string, error)

	// GenerateDescription writes a short blurb for a new route.
	GenerateDescription(ctx context.Context, req DescriptionRequest) (string, error)
}

// Disabled is the Recommender used when no API key is configured.
type Disabled struct{}

func (Disabled) RecommendRoutes(context.Context, string, []route.Summary) ([]string, error) {
	return nil, ErrUnavailable
}

func (Disabled) GenerateDescription(context.Context, DescriptionRequest) (string, error) {
	return DescriptionUnavailable, nil
}
