package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/config"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/daemon"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "vow",
	Short:         "Habit tracker with level-aware XP rewards",
	Long:          "vow scores habit completions, keeps habit difficulty in line with your level and suggests baby steps when a habit is too hard.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides VOW_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides VOW_CONFIG env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("json", false, "Print results as JSON")

	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(habitCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(consistencyCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies the --log-level flag.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		if _, err := config.ParseLevel(lvl); err != nil {
			return cfg, err
		}
		cfg.Logging.Level = lvl
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then VOW_DB env var or the config file, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.Database.Path != "" {
		return cfg.Database.Path, store.EnsureDir(cfg.Database.Path)
	}
	return store.DefaultDBPath()
}

// openDaemon loads config and wires every component against the database.
// Callers must Close the result.
func openDaemon(cmd *cobra.Command) (*daemon.Daemon, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := cfg.Logging.NewLogger(cmd.ErrOrStderr())
	slog.SetDefault(logger)

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	logger.Debug("opening database", "path", dbPath)
	return daemon.Open(cmd.Context(), cfg, dbPath, logger)
}

// openStore opens only the database, for commands that inspect recorded
// events without the services.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
