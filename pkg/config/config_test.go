package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Serial.BaudRate != 9600 {
		t.Errorf("serial.baud_rate = %d, want 9600", cfg.Serial.BaudRate)
	}
	if cfg.Serial.ScanInterval != 3*time.Second {
		t.Errorf("serial.scan_interval = %v, want 3s", cfg.Serial.ScanInterval)
	}
	if cfg.Training.Interval != 30*time.Minute {
		t.Errorf("training.interval = %v, want 30m", cfg.Training.Interval)
	}
	if cfg.Alerts.Cooldown != time.Minute {
		t.Errorf("alerts.cooldown = %v, want 1m", cfg.Alerts.Cooldown)
	}
	if cfg.Alerts.Hysteresis != 5*time.Second {
		t.Errorf("alerts.hysteresis = %v, want 5s", cfg.Alerts.Hysteresis)
	}
	if cfg.Alerts.HighRiskThreshold != 0.70 {
		t.Errorf("alerts.high_risk_threshold = %v, want 0.70", cfg.Alerts.HighRiskThreshold)
	}
	if cfg.EmailEnabled() {
		t.Error("email should be disabled without SMTP host")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9001
serial:
  scan_interval: 10s
alerts:
  cooldown: 2m
email:
  host: smtp.example.org
  maintenance_recipients:
    - ops@example.org
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9001 {
		t.Errorf("server.port = %d, want 9001", cfg.Server.Port)
	}
	if cfg.Serial.ScanInterval != 10*time.Second {
		t.Errorf("serial.scan_interval = %v, want 10s", cfg.Serial.ScanInterval)
	}
	if cfg.Alerts.Cooldown != 2*time.Minute {
		t.Errorf("alerts.cooldown = %v, want 2m", cfg.Alerts.Cooldown)
	}
	if !cfg.EmailEnabled() {
		t.Error("email should be enabled")
	}
	// Untouched sections keep their defaults.
	if cfg.Training.InitialDelay != 5*time.Second {
		t.Errorf("training.initial_delay = %v, want 5s", cfg.Training.InitialDelay)
	}
}

func TestLoadBadFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [not: valid"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("Load should fail on malformed yaml")
	}
}
