package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setFullEnv(t *testing.T) {
	t.Helper()
	t.Setenv("EMAIL_FROM", "noreply@example.com")
	t.Setenv("SMTP_SERVER", "smtp.example.com")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("SMTP_USERNAME", "mailer")
	t.Setenv("SMTP_PASSWORD", "secret")
}

func TestLoad_FromEnvironment(t *testing.T) {
	setFullEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Email.From != "noreply@example.com" {
		t.Errorf("expected from noreply@example.com, got %s", cfg.Email.From)
	}
	if cfg.Email.Host != "smtp.example.com" {
		t.Errorf("expected host smtp.example.com, got %s", cfg.Email.Host)
	}
	if cfg.Email.Port != 587 {
		t.Errorf("expected port 587, got %d", cfg.Email.Port)
	}
	if cfg.Email.Username != "mailer" {
		t.Errorf("expected username mailer, got %s", cfg.Email.Username)
	}
	if cfg.Email.Password != "secret" {
		t.Errorf("expected password secret, got %s", cfg.Email.Password)
	}
	if !cfg.Email.Complete() {
		t.Error("expected complete email configuration")
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Gateway.Host != "0.0.0.0" {
		t.Errorf("expected gateway host 0.0.0.0, got %s", cfg.Gateway.Host)
	}
	if cfg.Gateway.Port != 8085 {
		t.Errorf("expected gateway port 8085, got %d", cfg.Gateway.Port)
	}
	if cfg.Ops.Port != 9090 {
		t.Errorf("expected ops port 9090, got %d", cfg.Ops.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("expected log output stdout, got %s", cfg.Logging.Output)
	}
}

func TestLoad_DotenvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "EMAIL_FROM=file@example.com\n" +
		"SMTP_SERVER=smtp.file.example.com\n" +
		"SMTP_PORT=2525\n" +
		"SMTP_USERNAME=fileuser\n" +
		"SMTP_PASSWORD=filepass\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Email.From != "file@example.com" {
		t.Errorf("expected from file@example.com, got %s", cfg.Email.From)
	}
	if cfg.Email.Port != 2525 {
		t.Errorf("expected port 2525, got %d", cfg.Email.Port)
	}
	if !cfg.Email.Complete() {
		t.Error("expected complete email configuration from dotenv file")
	}
}

func TestLoad_EnvironmentOverridesDotenv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("SMTP_SERVER=smtp.file.example.com\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("SMTP_SERVER", "smtp.env.example.com")

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Email.Host != "smtp.env.example.com" {
		t.Errorf("expected env override smtp.env.example.com, got %s", cfg.Email.Host)
	}
}

func TestLoad_MissingDotenvFileIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.env"))
	if err != nil {
		t.Fatalf("expected missing dotenv file to be ignored, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config")
	}
}

func TestEmailConfig_Complete(t *testing.T) {
	full := EmailConfig{
		From:     "noreply@example.com",
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
	}

	tests := []struct {
		name   string
		mutate func(*EmailConfig)
		want   bool
	}{
		{"all fields present", func(c *EmailConfig) {}, true},
		{"missing from", func(c *EmailConfig) { c.From = "" }, false},
		{"missing host", func(c *EmailConfig) { c.Host = "" }, false},
		{"zero port", func(c *EmailConfig) { c.Port = 0 }, false},
		{"negative port", func(c *EmailConfig) { c.Port = -1 }, false},
		{"missing username", func(c *EmailConfig) { c.Username = "" }, false},
		{"missing password", func(c *EmailConfig) { c.Password = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := full
			tt.mutate(&cfg)
			if got := cfg.Complete(); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoad_NonNumericPortTreatedAsAbsent(t *testing.T) {
	setFullEnv(t)
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Email.Complete() {
		t.Error("expected incomplete configuration with non-numeric port")
	}
}
