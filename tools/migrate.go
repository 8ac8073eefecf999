package main

import (
	"context"
	"fmt"
	"os"

	"rental-booking/config"
	"rental-booking/database"
	"rental-booking/database/seeders"
	"rental-booking/services/exchange_rate"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func connect() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return database.InitDB(cfg)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables, indexes and foreign keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("🚀 Running database migrations...")
			if _, err := connect(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Println("✅ Migration completed successfully!")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var rate string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the default rooms and, if none is configured, an exchange rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			seeders.SeedRooms(db, seeders.DefaultRooms)
			if rate != "" {
				r, err := decimal.NewFromString(rate)
				if err != nil || !r.IsPositive() {
					return fmt.Errorf("invalid --rate %q", rate)
				}
				seeders.SeedExchangeRate(db, r, "seed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rate, "rate", "", "initial CDF per USD exchange rate")
	return cmd
}

func setRateCmd() *cobra.Command {
	var setBy string
	cmd := &cobra.Command{
		Use:   "set-rate <cdf-per-usd>",
		Short: "Record a new current exchange rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid rate %q: %w", args[0], err)
			}
			db, err := connect()
			if err != nil {
				return err
			}
			row, err := exchange_rate.NewService(db).Set(context.Background(), r, nil, setBy)
			if err != nil {
				return err
			}
			fmt.Printf("✅ Exchange rate %s CDF/USD effective from %s\n", row.Rate, row.EffectiveFrom.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
	cmd.Flags().StringVar(&setBy, "by", "cli", "who set the rate")
	return cmd
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database maintenance for the rental booking service",
	}
	rootCmd.AddCommand(migrateCmd(), seedCmd(), setRateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
