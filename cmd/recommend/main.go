// README: Command-line demo of the Gemini recommender against the seeded starter routes.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"strollpath/internal/ai"
	"strollpath/internal/logger"
	"strollpath/internal/modules/route"
	"strollpath/internal/store/seed"
)

func main() {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}
	query := strings.Join(os.Args[1:], " ")
	if query == "" {
		query = "a flat walk by the water"
	}

	zlog, err := logger.New(os.Getenv("STROLL_LOG_LEVEL"))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	provider, err := ai.NewGeminiProvider(ctx, apiKey, os.Getenv("STROLL_AI_MODEL"), zlog)
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer provider.Close()

	routes := seed.Routes(time.Now())
	candidates := make([]route.Summary, 0, len(routes))
	byID := make(map[string]route.Route, len(routes))
	for _, r := range routes {
		candidates = append(candidates, r.Summary())
		byID[r.ID] = r
	}

	fmt.Printf("Query: %s\n", query)
	ids, err := provider.RecommendRoutes(ctx, query, candidates)
	if err != nil {
		log.Fatalf("Error recommending routes: %v", err)
	}
	var picked []route.Route
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			picked = append(picked, r)
		}
	}
	if len(picked) == 0 {
		fmt.Println("No matching routes.")
		return
	}
	for i, r := range picked {
		fmt.Printf("%d. %s (%.1f mi) [%s]\n", i+1, r.Name, r.DistanceMiles, strings.Join(r.Tags, ", "))
	}

	top := picked[0]
	desc, err := provider.GenerateDescription(ctx, ai.DescriptionRequest{
		Name:          top.Name,
		DistanceMiles: top.DistanceMiles,
		Tags:          top.Tags,
	})
	if err != nil {
		log.Fatalf("Error generating description: %v", err)
	}
	fmt.Printf("Fresh description for %q: %s\n", top.Name, desc)
}
