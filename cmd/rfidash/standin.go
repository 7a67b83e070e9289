package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/rfidash/internal/api"
	"github.com/erazemk/rfidash/internal/db"
	"github.com/erazemk/rfidash/internal/simreader"
)

type standinFlags struct {
	addr         string
	db           string
	readInterval time.Duration
}

func standinCmd(g *globalFlags) *cobra.Command {
	f := &standinFlags{}

	cmd := &cobra.Command{
		Use:   "standin",
		Short: "Run a development stand-in of the inventory service",
		Long: `standin serves the HTTP contract of the inventory and RFID service over a
SQLite file and a simulated reader. Tags are placed in the simulated field
with POST /simulate/scan/{epc}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStandin(cmd, g, f)
		},
	}

	cmd.Flags().StringVarP(&f.addr, "addr", "a", ":8000", "listen address")
	cmd.Flags().StringVarP(&f.db, "db", "d", "standin.sqlite3", "SQLite database path")
	cmd.Flags().DurationVar(&f.readInterval, "read-interval", simreader.DefaultInterval, "simulated read cycle")
	return cmd
}

func runStandin(cmd *cobra.Command, g *globalFlags, f *standinFlags) error {
	cfg, closeLog, err := g.load(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Standin.Addr = f.addr
	}
	if flags.Changed("db") {
		cfg.Standin.DB = f.db
	}
	if flags.Changed("read-interval") {
		cfg.Standin.ReadInterval = f.readInterval
	}
	if err := cfg.ValidateStandin(); err != nil {
		return err
	}

	database, err := db.Open(cfg.Standin.DB)
	if err != nil {
		return err
	}
	defer database.Close()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.Standin.DB)

	rd := simreader.New(cfg.Standin.ReadInterval)
	stopReader := func() {
		if rd.Reading() {
			rd.Stop()
		}
	}

	return listenAndServe(newServer(cfg.Standin.Addr, api.NewRouter(database, rd)), stopReader)
}
