package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"go-resources/internal/enrichment"
	"go-resources/internal/logger"
	"go-resources/internal/service"
)

func backfillImagesCommand() *cobra.Command {
	var (
		delay       time.Duration
		onlyMissing bool
	)

	cmd := &cobra.Command{
		Use:   "backfill-images",
		Short: "Re-fetch cover images from Unsplash based on resource titles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cfg.APIs.UnsplashAccessKey == "" {
				return enrichment.ErrNoAccessKey
			}
			photos := enrichment.NewUnsplash(cfg.APIs.UnsplashURL, cfg.APIs.UnsplashAccessKey,
				cfg.Moderation.RequestTimeout, rate.NewLimiter(rate.Every(delay), 1))

			svc := service.NewResourceService(db, nil, nil, log)
			result, err := svc.BackfillImages(cmd.Context(), photos, delay, onlyMissing)
			log.Info("Image backfill finished",
				logger.Int("updated", result.Updated),
				logger.Int("failed", result.Failed))
			if err != nil {
				return fmt.Errorf("backfill images: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", 3*time.Second, "pause between Unsplash calls")
	cmd.Flags().BoolVar(&onlyMissing, "only-missing", false, "only resources without an image")
	return cmd
}

func remapCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remap-categories",
		Short: "Move resources from legacy categories to the current category set",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			svc := service.NewResourceService(db, nil, nil, log)
			result, err := svc.RemapCategories(cmd.Context(), service.DefaultCategoryMapping)
			log.Info("Category migration finished",
				logger.Int("updated", result.Updated),
				logger.Int("skipped", result.Skipped))
			if err != nil {
				return fmt.Errorf("remap categories: %w", err)
			}
			return nil
		},
	}
}
