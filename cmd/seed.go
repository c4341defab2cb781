package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fuelops/atgmon/config"
	"github.com/fuelops/atgmon/core/seed"
	"github.com/fuelops/atgmon/core/store"
	"github.com/fuelops/atgmon/infra/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate synthetic ATG history and print a summary",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	sites, tanks := cfg.Materialize()
	events := store.NewEventStore()
	seeder := seed.New(events, cfg.Seed, logger.New("seeder"))
	n, err := seeder.Seed(cfg.Seed, sites, tanks)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	fmt.Printf("seeded %d events across %d sites and %d tanks (%d hours of history)\n",
		n, len(sites), len(tanks), cfg.Seed.HistoryHours)
	return nil
}
