// Package config loads and validates the Currently server configuration.
//
// Values come from, in increasing precedence: built-in defaults, a YAML
// file, and CURRENTLY_* environment variables. Validate reports every
// problem at once rather than stopping at the first.
//
// Secrets (JWT secret, MQTT password, InfluxDB token) belong in the
// environment, not in the file. Keep the file at 0600 regardless.
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
package config
