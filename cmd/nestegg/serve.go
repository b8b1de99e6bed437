package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nestegg/nestegg/internal/calculation"
	"github.com/nestegg/nestegg/internal/config"
	"github.com/nestegg/nestegg/internal/server"
	"github.com/nestegg/nestegg/internal/storage"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the nestegg HTTP API",
		RunE:  runServe,
	}
	cmd.Flags().String("listen", "", "listen address (overrides config)")
	cmd.Flags().String("db", "", "path to the SQLite database (overrides config)")
	_ = viper.BindPFlag("listen_addr", cmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag("db_path", cmd.Flags().Lookup("db"))
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := config.LoadSettings(viper.GetViper())
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if dir := filepath.Dir(settings.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store, err := storage.NewSQLiteStore(settings.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	logger := slog.Default()
	engine := calculation.NewProjectionEngine()
	engine.SetLogger(calculation.SlogLogger{L: logger})

	srv := server.New(store, engine, logger)
	logger.Info("starting server", "addr", settings.ListenAddr, "db", settings.DBPath)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(settings.ListenAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
		logger.Info("server stopped")
		return nil
	}
}
