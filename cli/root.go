// Package cli provides the Cobra-based command line for the product catalog.
package cli

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rootCmd = &cobra.Command{
		Use:          "catalog",
		Short:        "A product catalog service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// tests inject a prebuilt app
			if app != nil {
				return nil
			}

			if cfg := viper.GetString("config"); cfg != "" {
				viper.SetConfigFile(cfg)
				if err := viper.ReadInConfig(); err != nil {
					return err
				}
			}

			cfg := loadConfig()
			logger := newLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
			slog.SetDefault(logger)

			var err error
			app, err = Build(cmd.Context(), cfg, logger)
			return err
		},
	}

	// app is the wired catalog every command runs against.
	app *App
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file")
	flags.String("store", "memory", "store backend: memory|file|sqlite|postgres")
	flags.String("store-file", "data/products.json", "file store path (also the sqlite database when --dsn is empty)")
	flags.String("dsn", "", "database connection string")
	flags.Bool("auto-migrate", true, "apply pending migrations when a SQL store opens")
	flags.String("log-level", "info", "log level: debug|info|warn|error")
	flags.String("log-format", "text", "log format: text|json")
	flags.String("event-sink", "none", "event sink: none|nats|redis|kafka")
	flags.String("event-sink-url", "", "event sink address")
	flags.String("event-sink-topic", "", "event sink subject, stream or topic")

	for _, name := range []string{
		"config", "store", "store-file", "dsn", "auto-migrate", "log-level",
		"log-format", "event-sink", "event-sink-url", "event-sink-topic",
	} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
	viper.SetEnvPrefix("CATALOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// Execute runs the command tree and releases whatever it opened.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if app != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = errors.Join(err, app.Close(ctx))
	}
	return err
}
