package main

import (
	"github.com/spf13/cobra"

	"github.com/d60-Lab/newsfeed/config"
	"github.com/d60-Lab/newsfeed/pkg/database"
	"github.com/d60-Lab/newsfeed/pkg/logger"
)

func newMigrateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users, posts and follows tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(*configFile)
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Log); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			cfg.Database.AutoMigrate = false
			db, err := database.InitDB(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			if err := database.Migrate(db); err != nil {
				return err
			}
			logger.Info("migration complete")
			return nil
		},
	}
}
