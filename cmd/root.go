package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sweetstack/cakepricer/internal/models"
	"github.com/sweetstack/cakepricer/internal/pricing"
	"github.com/sweetstack/cakepricer/internal/repositories"
	"github.com/sweetstack/cakepricer/internal/repositories/postgres"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "cakepricer",
	Short: "Add-on pricing engine for custom cake designs",
	Long:  `cakepricer prices AI-decomposed cake designs against a rule table: toppers, support elements, messages and icing features, with gumpaste allowance aggregation. It also seeds rule catalogs, administers rules and simulates quote traffic.`,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is examples/config.json)")

	rootCmd.PersistentFlags().Int("seed", 42, "Random seed for quote simulation")
	rootCmd.PersistentFlags().Bool("kafka-enabled", false, "Enable Kafka output")
	rootCmd.PersistentFlags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	rootCmd.PersistentFlags().String("output-path", "", "Output directory for quote event files")
	rootCmd.PersistentFlags().String("output-format", "json", "Output file format: json, csv or parquet")

	viper.BindPFlags(rootCmd.PersistentFlags())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("examples")
		viper.SetConfigType("json")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func loadConfig() *models.Config {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// openRuleStore connects the pgx pool and wraps it in the rule repository.
// The caller owns the pool and must Close it.
func openRuleStore(ctx context.Context, cfg *models.Config) (repositories.PricingRuleRepository, *pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.Database.ConnString())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return postgres.NewPricingRuleRepository(pool), pool, nil
}

func newEngine(repo repositories.PricingRuleRepository, cfg *models.Config) *pricing.Engine {
	return pricing.NewEngine(pricing.NewRuleCache(repo, cfg.RuleCacheTTL))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
