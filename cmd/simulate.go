package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sweetstack/cakepricer/internal/quotesim"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate and price randomized cake designs",
	Long:  `simulate builds randomized cake designs, prices them against the live rule table and emits quote events to the configured output: Kafka, Postgres, local files or stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		repo, pool, err := openRuleStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		sim := quotesim.NewSimulator(cfg, newEngine(repo, cfg))
		return sim.Run(cmd.Context())
	},
}

func init() {
	simulateCmd.Flags().Int("quotes", 100, "Number of quote requests to simulate")
	viper.BindPFlag("simulated_quotes", simulateCmd.Flags().Lookup("quotes"))
	rootCmd.AddCommand(simulateCmd)
}
