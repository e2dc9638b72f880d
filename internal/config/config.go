package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Email   EmailConfig
	Gateway GatewayConfig
	Ops     OpsConfig
	Logging LoggingConfig
}

// EmailConfig holds the SMTP relay credentials used for outbound sends.
// All five fields must be non-empty for a send to proceed; completeness
// is checked per operation rather than at startup, so the server can run
// and report the problem to callers instead of refusing to boot.
type EmailConfig struct {
	From     string
	Host     string
	Port     int
	Username string
	Password string
}

// GatewayConfig holds the MCP listener configuration.
type GatewayConfig struct {
	Host string
	Port int
}

// OpsConfig holds the operational HTTP server (health, metrics) configuration.
type OpsConfig struct {
	Port int
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level     string
	Output    string // stdout (default) or file
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// envKeys are the variables read from the process environment. An optional
// dotenv file supplies fallback values for any of them; real environment
// variables always win.
var envKeys = []string{
	"EMAIL_FROM",
	"SMTP_SERVER",
	"SMTP_PORT",
	"SMTP_USERNAME",
	"SMTP_PASSWORD",
	"GATEWAY_HOST",
	"GATEWAY_PORT",
	"OPS_PORT",
	"LOG_LEVEL",
	"LOG_OUTPUT",
	"LOG_FILE_PATH",
	"LOG_MAX_SIZE_MB",
	"LOG_MAX_FILES",
}

// Load reads configuration from the process environment, optionally backed
// by a dotenv file at envFile (ignored if the file does not exist). Missing
// email credentials are not an error here: the gateway validates them at
// each operation boundary via EmailConfig.Complete.
func Load(envFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("GATEWAY_HOST", "0.0.0.0")
	v.SetDefault("GATEWAY_PORT", 8085)
	v.SetDefault("OPS_PORT", 9090)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_FILES", 5)

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read env file: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	for _, key := range envKeys {
		// BindEnv maps each key to the identically named variable so
		// process env overrides dotenv file values.
		_ = v.BindEnv(key)
	}

	cfg := &Config{
		Email: EmailConfig{
			From:     v.GetString("EMAIL_FROM"),
			Host:     v.GetString("SMTP_SERVER"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
		},
		Gateway: GatewayConfig{
			Host: v.GetString("GATEWAY_HOST"),
			Port: v.GetInt("GATEWAY_PORT"),
		},
		Ops: OpsConfig{
			Port: v.GetInt("OPS_PORT"),
		},
		Logging: LoggingConfig{
			Level:     v.GetString("LOG_LEVEL"),
			Output:    v.GetString("LOG_OUTPUT"),
			FilePath:  v.GetString("LOG_FILE_PATH"),
			MaxSizeMB: v.GetInt("LOG_MAX_SIZE_MB"),
			MaxFiles:  v.GetInt("LOG_MAX_FILES"),
		},
	}

	return cfg, nil
}

// Complete reports whether every credential required for a send is present.
// A non-positive port counts as absent, which also covers the case of a
// non-numeric SMTP_PORT value.
func (c EmailConfig) Complete() bool {
	return c.From != "" &&
		c.Host != "" &&
		c.Port > 0 &&
		c.Username != "" &&
		c.Password != ""
}
