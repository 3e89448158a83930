// Package logging provides structured logging for the Currently services.
//
// It wraps log/slog so every binary logs the same way: JSON for machines,
// text for people, and a service and version field on every entry.
//
// Configured from the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Usage:
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("listening", "addr", addr)
//
// Never log passwords, bearer tokens or the JWT secret.
package logging
