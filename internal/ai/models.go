package ai

// DescriptionRequest carries the route facts a description is written from.
type DescriptionRequest struct {
	Name          string   `json:"name" validate:"required,max=120"`
	DistanceMiles float64  `json:"distance" validate:"gte=0"`
	Tags          []string `json:"tags"`
}

// recommendationResult is the structured output requested from the model.
type recommendationResult struct {
	RecommendedRouteIDs []string `json:"recommended_route_ids"`
}
