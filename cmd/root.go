// Package cmd 命令行入口: serve 启动服务,其余为维护命令
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-resources/config"
	"go-resources/internal/logger"
	"go-resources/internal/model"
)

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "go-resources",
		Short: "Learning resource sharing service with automated moderation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
)

// Execute 执行根命令
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(backfillImagesCommand())
	rootCmd.AddCommand(remapCategoriesCommand())
}

// bootstrap 加载配置、日志并打开数据库
func bootstrap() (*config.Config, logger.Logger, *gorm.DB, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := openDatabase(cfg.Database.Path)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

func openDatabase(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// 自动迁移
	if err := model.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}
