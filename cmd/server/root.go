package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/config"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/service"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/storage/sqlite"
	"github.com/N-P-Trigunayat/N-P-Split-2/pkg/logging"
)

// app carries state shared by every command.
type app struct {
	cfg     config.Config
	envFile string
	dbPath  string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "splitledger",
		Short:         "Shared expense ledger",
		Long:          `splitledger records shared expenses and settlements, computes who owes whom, and suggests how to settle up.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if a.envFile != "" {
				files = append(files, a.envFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			if a.dbPath != "" {
				cfg.DBPath = a.dbPath
			}
			a.cfg = cfg
			logging.Setup(cfg.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "env file to load (default .env)")
	cmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (overrides DB_PATH)")

	cmd.AddCommand(a.serveCmd())
	cmd.AddCommand(a.exportCmd())
	cmd.AddCommand(a.importCmd())
	cmd.AddCommand(a.balancesCmd())

	return cmd
}

// openService opens the store and builds the ledger service on top of it.
// The returned close function releases the store.
func (a *app) openService() (*service.LedgerService, func(), error) {
	store, err := sqlite.New(a.cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	slog.Debug("Storage initialized", "database", a.cfg.DBPath)

	svc, err := service.NewLedgerService(store, service.Config{
		User:     a.cfg.User.Defaults(),
		Strategy: a.cfg.SimplifyStrategy,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return svc, func() { store.Close() }, nil
}
