package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"govintel/internal/platform/config"
)

const readHeaderTimeout = 5 * time.Second

// New builds the API server from the server section of the config. Server
// errors go to the structured logger instead of the standard log package.
func New(cfg config.Server, handler http.Handler, logger *slog.Logger) *http.Server {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       2 * cfg.WriteTimeout,
	}
	if logger != nil {
		srv.ErrorLog = slog.NewLogLogger(logger.Handler(), slog.LevelError)
	}
	return srv
}
