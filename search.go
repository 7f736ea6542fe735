package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"recipebook/models"
	"recipebook/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search TheMealDB once and print the recipes as JSON",
	Long: `Runs the name and ingredient stages of the recipe search against TheMealDB
and prints the result. The local store stage is skipped so no database is
needed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		meals := newMealDB(cfg)
		o := search.New(logger,
			&search.NameStage{Meals: meals},
			&search.IngredientStage{Meals: meals, Log: logger},
		)
		recipes, err := o.Search(cmd.Context(), query)
		if err != nil {
			return err
		}
		return printRecipes(recipes)
	},
}

func printRecipes(recipes []models.Recipe) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(recipes)
}
