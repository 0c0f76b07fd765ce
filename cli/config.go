package cli

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"catalog/messaging"
	"catalog/store"

	"github.com/spf13/viper"
)

// Config is the resolved runtime configuration.
type Config struct {
	Store store.Config
	Sink  messaging.SinkConfig

	LogLevel  string
	LogFormat string

	HTTPAddr         string
	ShutdownTimeout  time.Duration
	CORSOrigins      []string
	ValidateRequests bool
}

func loadConfig() Config {
	return Config{
		Store: store.Config{
			Kind:        viper.GetString("store"),
			FilePath:    viper.GetString("store-file"),
			DSN:         viper.GetString("dsn"),
			AutoMigrate: viper.GetBool("auto-migrate"),
		},
		Sink: messaging.SinkConfig{
			Kind:  viper.GetString("event-sink"),
			URL:   viper.GetString("event-sink-url"),
			Topic: viper.GetString("event-sink-topic"),
		},
		LogLevel:         viper.GetString("log-level"),
		LogFormat:        viper.GetString("log-format"),
		HTTPAddr:         viper.GetString("http-addr"),
		ShutdownTimeout:  viper.GetDuration("shutdown-timeout"),
		CORSOrigins:      viper.GetStringSlice("cors-origins"),
		ValidateRequests: viper.GetBool("validate-requests"),
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
