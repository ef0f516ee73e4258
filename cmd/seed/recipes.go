package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	apperrors "mealplan/internal/errors"
	"mealplan/internal/repository"
	"mealplan/internal/service"
)

// SeedRecipeData is one curated recipe in a seed file.
type SeedRecipeData struct {
	Title          string   `json:"title"`
	Summary        string   `json:"summary"`
	ReadyInMinutes *int     `json:"readyInMinutes"`
	Instructions   string   `json:"instructions"`
	Ingredients    []string `json:"ingredients"`
	Diets          []string `json:"diets"`
	Cuisines       []string `json:"cuisines"`
}

var recipeSource string

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Load curated recipes from a JSON file or URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Printf("Reading recipes from: %s", recipeSource)
		body, err := readSource(recipeSource)
		if err != nil {
			return err
		}
		var recipes []SeedRecipeData
		if err := json.Unmarshal(body, &recipes); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
		log.Printf("Read %d recipes", len(recipes))

		svc := service.NewAdminRecipeService(repository.NewAdminRecipeRepository(gormDB))
		created, skipped := seedRecipes(cmd.Context(), svc, recipes)
		log.Printf("Seed completed: %d recipes created, %d skipped", created, skipped)
		return nil
	},
}

func init() {
	recipesCmd.Flags().StringVar(&recipeSource, "source", "", "Path or http(s) URL of a JSON array of recipes (required)")
	_ = recipesCmd.MarkFlagRequired("source")
	rootCmd.AddCommand(recipesCmd)
}

// readSource reads a local file or fetches an http(s) URL.
func readSource(source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.ReadFile(source)
	}

	resp, err := http.Get(source)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status code: %d", source, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// seedRecipes creates every recipe whose title is free. Invalid and duplicate
// recipes are logged and skipped.
func seedRecipes(ctx context.Context, svc service.AdminRecipeService, recipes []SeedRecipeData) (created, skipped int) {
	for _, r := range recipes {
		_, err := svc.Create(ctx, service.CreateRecipeInput{
			Title:          r.Title,
			Summary:        r.Summary,
			ReadyInMinutes: r.ReadyInMinutes,
			Instructions:   r.Instructions,
			Ingredients:    r.Ingredients,
			Diets:          r.Diets,
			Cuisines:       r.Cuisines,
		})
		if err != nil {
			var verr *apperrors.ValidationError
			switch {
			case errors.Is(err, apperrors.ErrRecipeExists):
				log.Printf("Skipping existing recipe %q", r.Title)
			case errors.As(err, &verr):
				log.Printf("Skipping invalid recipe %q: %s", r.Title, verr.Message)
			default:
				log.Printf("Skipping recipe %q: %v", r.Title, err)
			}
			skipped++
			continue
		}
		created++
	}
	return created, skipped
}
