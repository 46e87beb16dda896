package main

import (
	"context"
	"fmt"

	"companion-app/frontend/internal/models"
	"companion-app/frontend/pkg/config"
	"companion-app/frontend/pkg/secrets"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the catalog tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			manager, err := secrets.NewManager(cfg.Vault, log)
			if err != nil {
				return err
			}
			secrets.Apply(cmd.Context(), manager, cfg)

			db, err := config.NewDB(cfg, log)
			if err != nil {
				return err
			}

			if err := db.WithContext(context.WithoutCancel(cmd.Context())).
				AutoMigrate(&models.Companion{}, &models.SessionHistoryEntry{}, &models.Bookmark{}); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			log.Info("Migration complete")
			return nil
		},
	}
}
