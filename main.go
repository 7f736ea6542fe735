package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recipebook/config"
	"recipebook/logging"
	"recipebook/mealdb"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "recipebook",
	Short: "Recipe sharing backend",
	Long: `recipebook serves the recipe sharing API: accounts, recipe submissions
with photos, and a search that tries TheMealDB by name, then by ingredient,
then the recipes users have submitted.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogLevel, cfg.LogJSON)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, searchCmd)
}

func newMealDB(c *config.Config) *mealdb.Client {
	return mealdb.New(c.MealDBBaseURL, &http.Client{Timeout: c.MealDBTimeout})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
