package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/dreamjournal/pkg/config"
	pkgdb "github.com/unowned-ai/dreamjournal/pkg/db"
	"github.com/unowned-ai/dreamjournal/pkg/utils"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the SQLite history database",
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Create or upgrade the SQLite history schema",
	Long: `Connects to the SQLite database (--dbpath, storage.db_path or the per-user default) and applies
any schema migrations needed for the dream history. A missing database is created.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := config.NewLogger(cfg.Log)

		path, err := utils.ResolveAndEnsurePath(cfg.Storage.DBPath, utils.GetDefaultDBPath())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Upgrading dream history in %s (WAL: %t, Sync: %s)\n", path, cfg.Storage.EnableWAL, cfg.Storage.SyncPragma)

		conn, err := pkgdb.OpenDBConnection(path, cfg.Storage.EnableWAL, cfg.Storage.SyncPragma)
		if err != nil {
			return err
		}
		defer conn.Close()

		return pkgdb.UpgradeDB(cmd.Context(), conn, logger, path, pkgdb.TargetSchemaVersion)
	},
}

func initDBCmds() {
	dbCmd.AddCommand(dbUpgradeCmd)
	rootCmd.AddCommand(dbCmd)
}
