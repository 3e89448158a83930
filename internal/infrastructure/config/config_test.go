package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validJWTSecret = "test-secret-key-at-least-32-chars!"

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
database:
  path: "/tmp/test.db"
api:
  port: 9090
energy:
  tariff_per_kwh: 0.25
  currency: "EUR"
catalogue:
  path: "/etc/currently/appliances.yaml"
security:
  jwt:
    secret: "test-secret-key-at-least-32-chars!"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
	if cfg.Energy.TariffPerKWh != 0.25 || cfg.Energy.Currency != "EUR" {
		t.Errorf("Energy = %+v", cfg.Energy)
	}
	if cfg.Catalogue.Path != "/etc/currently/appliances.yaml" {
		t.Errorf("Catalogue.Path = %q", cfg.Catalogue.Path)
	}
	// Untouched sections keep their defaults.
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("MQTT.Broker.Port = %d, want default 1883", cfg.MQTT.Broker.Port)
	}
}

func TestLoad_EmptyPathUsesEnvironment(t *testing.T) {
	t.Setenv("CURRENTLY_JWT_SECRET", validJWTSecret)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Energy.TariffPerKWh != 0.30 {
		t.Errorf("TariffPerKWh = %v, want 0.30", cfg.Energy.TariffPerKWh)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(*testing.T) string { return "/nonexistent/path/config.yaml" }},
		{"invalid yaml", func(t *testing.T) string { return writeConfig(t, "invalid: [yaml: content") }},
		{"validation failure", func(t *testing.T) string {
			return writeConfig(t, "database:\n  path: \"\"\n")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path(t)); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid config", func(*Config) {}, ""},
		{"missing database path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"invalid port low", func(c *Config) { c.API.Port = 0 }, "api.port"},
		{"invalid port high", func(c *Config) { c.API.Port = 70000 }, "api.port"},
		{"tls without files", func(c *Config) { c.API.TLS.Enabled = true }, "api.tls"},
		{"invalid qos", func(c *Config) { c.MQTT.QoS = 3 }, "mqtt.qos"},
		{"influx without bucket", func(c *Config) {
			c.InfluxDB.Enabled = true
			c.InfluxDB.URL = "http://localhost:8086"
		}, "influxdb"},
		{"zero tariff", func(c *Config) { c.Energy.TariffPerKWh = 0 }, "tariff_per_kwh"},
		{"zero token ttl", func(c *Config) { c.Security.JWT.AccessTokenTTL = 0 }, "access_token_ttl"},
		{"missing jwt secret", func(c *Config) { c.Security.JWT.Secret = "" }, "CURRENTLY_JWT_SECRET"},
		{"short jwt secret", func(c *Config) { c.Security.JWT.Secret = "short" }, "at least 32"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Security.JWT.Secret = validJWTSecret
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := defaultConfig()
	cfg.Database.Path = ""
	cfg.API.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"database.path", "api.port", "security.jwt.secret"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := &Config{
		API:      APIConfig{Timeouts: APITimeoutConfig{Read: 30, Write: 45, Idle: 60}},
		Security: SecurityConfig{JWT: JWTConfig{AccessTokenTTL: 90}},
	}
	if got := cfg.GetReadTimeout(); got != 30*time.Second {
		t.Errorf("GetReadTimeout() = %v", got)
	}
	if got := cfg.GetWriteTimeout(); got != 45*time.Second {
		t.Errorf("GetWriteTimeout() = %v", got)
	}
	if got := cfg.GetIdleTimeout(); got != 60*time.Second {
		t.Errorf("GetIdleTimeout() = %v", got)
	}
	if got := cfg.GetAccessTokenTTL(); got != 90*time.Minute {
		t.Errorf("GetAccessTokenTTL() = %v", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	t.Setenv("CURRENTLY_DATABASE_PATH", "/custom/path.db")
	t.Setenv("CURRENTLY_API_HOST", "192.168.1.1")
	t.Setenv("CURRENTLY_API_PORT", "9000")
	t.Setenv("CURRENTLY_MQTT_HOST", "mqtt.example.com")
	t.Setenv("CURRENTLY_MQTT_USERNAME", "testuser")
	t.Setenv("CURRENTLY_MQTT_PASSWORD", "testpass")
	t.Setenv("CURRENTLY_INFLUXDB_TOKEN", "secret-token")
	t.Setenv("CURRENTLY_JWT_SECRET", "jwt-secret")
	t.Setenv("CURRENTLY_ENERGY_TARIFF", "0.42")
	t.Setenv("CURRENTLY_CATALOGUE_PATH", "/tmp/catalogue.yaml")

	if err := applyEnvOverrides(cfg); err != nil {
		t.Fatalf("applyEnvOverrides() error = %v", err)
	}

	checks := []struct {
		field, got, want string
	}{
		{"Database.Path", cfg.Database.Path, "/custom/path.db"},
		{"API.Host", cfg.API.Host, "192.168.1.1"},
		{"MQTT.Broker.Host", cfg.MQTT.Broker.Host, "mqtt.example.com"},
		{"MQTT.Auth.Username", cfg.MQTT.Auth.Username, "testuser"},
		{"MQTT.Auth.Password", cfg.MQTT.Auth.Password, "testpass"},
		{"InfluxDB.Token", cfg.InfluxDB.Token, "secret-token"},
		{"Security.JWT.Secret", cfg.Security.JWT.Secret, "jwt-secret"},
		{"Catalogue.Path", cfg.Catalogue.Path, "/tmp/catalogue.yaml"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
	if cfg.API.Port != 9000 {
		t.Errorf("API.Port = %d, want 9000", cfg.API.Port)
	}
	if cfg.Energy.TariffPerKWh != 0.42 {
		t.Errorf("Energy.TariffPerKWh = %v, want 0.42", cfg.Energy.TariffPerKWh)
	}
}

func TestApplyEnvOverrides_InvalidNumber(t *testing.T) {
	t.Setenv("CURRENTLY_API_PORT", "eighty")
	if err := applyEnvOverrides(defaultConfig()); err == nil {
		t.Error("expected error for non-numeric port")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Database.Path == "" {
		t.Error("defaultConfig should have non-empty Database.Path")
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want 8080", cfg.API.Port)
	}
	if cfg.MQTT.Enabled || cfg.InfluxDB.Enabled {
		t.Error("brokers should be disabled by default")
	}
}
