package cli

import (
	"fmt"

	"github.com/cleanblog/internal/config"
	"github.com/cleanblog/internal/db"
	"github.com/cleanblog/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema and exit",
		Long: `Create or upgrade the database schema and exit.

An existing database from the legacy deployment is upgraded in place: the
role column is added and the account with id 1 becomes the administrator.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, log, err := openStore(cmd, opts)
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			log.Info("schema is up to date")
			return nil
		},
	}
}

// openStore 读取配置并初始化数据库，不要求邮件与会话配置
func openStore(cmd *cobra.Command, opts *RootOptions) (*gorm.DB, *logrus.Logger, error) {
	cfg, err := config.Decode(opts.EnvFile)
	if err != nil {
		return nil, nil, err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}

	gdb, err := db.Init(cfg.DatabasePath, logging.Gorm(log))
	if err != nil {
		return nil, nil, fmt.Errorf("initialize database: %w", err)
	}
	log.WithField("path", cfg.DatabasePath).Debug("database ready")
	return gdb, log, nil
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
}
