package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and administer pricing rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all pricing rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		repo, pool, err := openRuleStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		rules, err := repo.GetAll(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ITEM KEY\tCATEGORY\tPRICE\tQUANTITY RULE\tMULTIPLIER\tCLASS\tACTIVE")
		for _, rule := range rules {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\t%s\t%t\n",
				rule.ItemKey, rule.Category, rule.Price,
				rule.QuantityRule, rule.MultiplierRule,
				rule.Classification, rule.IsActive)
		}
		return w.Flush()
	},
}

var rulesSetPriceCmd = &cobra.Command{
	Use:   "set-price <item_key> <price>",
	Short: "Update the price of a rule",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", args[1], err)
		}

		cfg := loadConfig()

		repo, pool, err := openRuleStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := repo.UpdatePrice(cmd.Context(), args[0], price); err != nil {
			return err
		}
		fmt.Printf("Updated %s to %.2f; running engines pick this up within the cache TTL\n", args[0], price)
		return nil
	},
}

var rulesDeactivateCmd = &cobra.Command{
	Use:   "deactivate <item_key>",
	Short: "Deactivate a rule so the engine stops matching it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		repo, pool, err := openRuleStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := repo.Deactivate(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deactivated %s; running engines pick this up within the cache TTL\n", args[0])
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesSetPriceCmd)
	rulesCmd.AddCommand(rulesDeactivateCmd)
	rootCmd.AddCommand(rulesCmd)
}
