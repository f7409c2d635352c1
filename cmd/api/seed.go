package main

import (
	"log"

	"github.com/spf13/cobra"

	dbpkg "github.com/BruksfildServices01/salon-manager/internal/db"
	"github.com/BruksfildServices01/salon-manager/internal/password"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default admin account if no admin exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}

		created, err := dbpkg.SeedAdmin(db, cfg, password.NewBcryptHasher())
		if err != nil {
			return err
		}
		if created {
			log.Printf("admin %q created; change its password after the first login", cfg.AdminUsername)
		} else {
			log.Println("an admin already exists, nothing to do")
		}
		return nil
	},
}
