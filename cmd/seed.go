package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/sweetstack/cakepricer/internal/factories"
	"github.com/sweetstack/cakepricer/internal/models"
)

var (
	seedRulesFile string
	seedTruncate  bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Bulk-load the pricing rule catalog",
	Long:  `seed loads pricing rules into the rule table through COPY. Rules come from a JSON file when --rules is given, otherwise the built-in starter catalog is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		repo, pool, err := openRuleStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		rules, err := loadSeedRules()
		if err != nil {
			return err
		}

		if seedTruncate {
			if err := repo.DeleteAll(cmd.Context()); err != nil {
				return fmt.Errorf("failed to truncate pricing rules: %w", err)
			}
		}

		bar := progressbar.Default(int64(len(rules)), "seeding rules")
		const chunkSize = 100
		for start := 0; start < len(rules); start += chunkSize {
			end := start + chunkSize
			if end > len(rules) {
				end = len(rules)
			}
			if err := repo.BulkCreate(cmd.Context(), rules[start:end]); err != nil {
				return fmt.Errorf("failed to bulk create pricing rules: %w", err)
			}
			bar.Add(end - start)
		}

		count, err := repo.Count(cmd.Context())
		if err != nil {
			return err
		}
		log.Printf("Seeded %d rules, table now holds %d", len(rules), count)
		return nil
	},
}

func loadSeedRules() ([]models.PricingRule, error) {
	if seedRulesFile == "" {
		return factories.DefaultPricingRules(), nil
	}

	data, err := os.ReadFile(seedRulesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rules []models.PricingRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("invalid rules file: %w", err)
	}
	return rules, nil
}

func init() {
	seedCmd.Flags().StringVar(&seedRulesFile, "rules", "", "JSON file with pricing rules (default: built-in catalog)")
	seedCmd.Flags().BoolVar(&seedTruncate, "truncate", false, "Truncate the rule table before loading")
	rootCmd.AddCommand(seedCmd)
}
