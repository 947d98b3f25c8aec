package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"strollpath/internal/modules/route"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

// generator is the slice of *genai.GenerativeModel the provider relies on.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiProvider implements Recommender using Google's Gemini models.
type GeminiProvider struct {
	client    *genai.Client
	recommend generator
	describe  generator
	log       *zap.Logger
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string, log *zap.Logger) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, ErrUnavailable
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Recommendations are parsed, so force JSON against a fixed schema.
	rec := client.GenerativeModel(modelName)
	rec.ResponseMIMEType = "application/json"
	rec.ResponseSchema = recommendationSchema
	rec.SetTemperature(0.2)

	desc := client.GenerativeModel(modelName)
	desc.SetTemperature(0.8)

	return newGeminiProvider(client, rec, desc, log), nil
}

func newGeminiProvider(client *genai.Client, rec, desc generator, log *zap.Logger) *GeminiProvider {
	if log == nil {
		log = zap.NewNop()
	}
	return &GeminiProvider{client: client, recommend: rec, describe: desc, log: log}
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	if p.client != nil {
		p.client.Close()
	}
}

var recommendationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recommended_route_ids": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "An array of string IDs for the recommended routes that best match the user query.",
		},
	},
	Required: []string{"recommended_route_ids"},
}

// RecommendRoutes asks the model which candidates match the query.
func (p *GeminiProvider) RecommendRoutes(ctx context.Context, query string, candidates []route.Summary) ([]string, error) {
	prompt, err := buildRecommendationPrompt(query, candidates)
	if err != nil {
		return nil, err
	}

	text, err := generateText(ctx, p.recommend, prompt)
	if err != nil {
		p.log.Error("gemini recommendation call failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	ids, err := parseRecommendation(text)
	if err != nil {
		// A malformed answer is treated as "nothing matched" rather than an outage.
		p.log.Warn("gemini recommendation did not match schema", zap.Error(err), zap.String("raw", text))
		return []string{}, nil
	}
	return ids, nil
}

// GenerateDescription writes a short inspiring description for a new route.
func (p *GeminiProvider) GenerateDescription(ctx context.Context, req DescriptionRequest) (string, error) {
	text, err := generateText(ctx, p.describe, buildDescriptionPrompt(req))
	if err != nil {
		p.log.Error("gemini description call failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return strings.TrimSpace(text), nil
}

func generateText(ctx context.Context, model generator, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no response candidates from Gemini")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	return out.String(), nil
}

func buildRecommendationPrompt(query string, candidates []route.Summary) (string, error) {
	if candidates == nil {
		candidates = []route.Summary{}
	}
	routesJSON, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode candidates: %w", err)
	}

	return fmt.Sprintf(`You are a helpful assistant for a walking route app called "Stroll Path".
Your task is to recommend the best walking routes from a provided list based on a user's query.
Analyze the user's request and the list of available routes.
Return a JSON object containing the IDs of the routes that are the best match.

User Query: %q

Available Routes:
%s

Based on the query, identify the most relevant routes and return their IDs. If no routes are a good match, return an empty array.
`, query, routesJSON), nil
}

func buildDescriptionPrompt(req DescriptionRequest) string {
	tagLine := ""
	if len(req.Tags) > 0 {
		tagLine = fmt.Sprintf("The atmosphere is described by these tags: %s.", strings.Join(req.Tags, ", "))
	}
	return fmt.Sprintf(`Generate a short, inspiring, and engaging description for a walking route.
Keep it under 40 words.
Route Name: %q
Distance: %.1f miles.
%s

Description:`, req.Name, req.DistanceMiles, tagLine)
}

func parseRecommendation(text string) ([]string, error) {
	var result recommendationResult
	if err := json.Unmarshal([]byte(cleanJSONString(text)), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if result.RecommendedRouteIDs == nil {
		return nil, errors.New("missing recommended_route_ids")
	}
	return result.RecommendedRouteIDs, nil
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
