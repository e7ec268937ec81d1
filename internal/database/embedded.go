package database

import (
	"log/slog"
	"path/filepath"
	"strconv"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/yuchenghsu/signalguide-backend/internal/config"
)

var embedded *embeddedpostgres.EmbeddedPostgres

// StartEmbedded boots a local postgres under cfg.DBEmbeddedPath and
// rewrites the connection settings in cfg to point at it.
func StartEmbedded(cfg *config.Config) error {
	port, err := strconv.ParseUint(cfg.DBPort, 10, 32)
	if err != nil {
		port = 5433
	}
	if cfg.DBPassword == "" {
		cfg.DBPassword = "postgres"
	}

	embedded = embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
		Username(cfg.DBUser).
		Password(cfg.DBPassword).
		Database(cfg.DBName).
		Port(uint32(port)).
		DataPath(filepath.Join(cfg.DBEmbeddedPath, "pg")).
		RuntimePath(filepath.Join(cfg.DBEmbeddedPath, "runtime")))

	if err := embedded.Start(); err != nil {
		return err
	}

	cfg.DBHost = "localhost"
	cfg.DBPort = strconv.FormatUint(port, 10)
	slog.Info("embedded postgres started", "port", port, "path", cfg.DBEmbeddedPath)
	return nil
}

// StopEmbedded shuts the embedded server down if one was started.
func StopEmbedded() {
	if embedded == nil {
		return
	}
	if err := embedded.Stop(); err != nil {
		slog.Error("embedded postgres stop failed", "error", err)
	}
	embedded = nil
}
