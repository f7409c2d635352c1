package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-manager/internal/db"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "salon",
	Short: "Salon management API",
	Long: `Backend for a personal-services shop: staff users, clients, services,
employees and appointments behind token authentication.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// bootstrap loads the configuration and opens a migrated database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	db, err := dbpkg.Open(cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := dbpkg.Migrate(db); err != nil {
		return nil, nil, err
	}

	log.Printf("database ready (%s)", cfg.DBDriver)
	return cfg, db, nil
}
