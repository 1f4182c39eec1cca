package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sweetstack/cakepricer/internal/models"
)

var priceCmd = &cobra.Command{
	Use:   "price <design.json>",
	Short: "Price a cake design file and print the quote",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		repo, pool, err := openRuleStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read design file: %w", err)
		}

		var design models.DesignState
		if err := json.Unmarshal(data, &design); err != nil {
			return fmt.Errorf("invalid design file: %w", err)
		}

		engine := newEngine(repo, cfg)
		result, err := engine.Price(cmd.Context(), design)
		if err != nil {
			return err
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(priceCmd)
}
