package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/sharkins95/sqlalchemy-challenge/internal/config"
)

func TestNewLogger_releaseWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}

	logger := newLogger(&buf, cfg, "1.2.3", "climate-api")
	logger.Info("hello", "station", "USC00519281")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	for key, want := range map[string]string{
		"msg":     "hello",
		"app":     "climate-api",
		"version": "1.2.3",
		"env":     "prod",
		"station": "USC00519281",
	} {
		if rec[key] != want {
			t.Errorf("%s = %v; want %q", key, rec[key], want)
		}
	}
}

func TestNewLogger_devUsesTint(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelDebug}

	logger := newLogger(&buf, cfg, "dev", "climate-api")
	logger.Debug("tick")

	out := buf.String()
	if !strings.Contains(out, "tick") || !strings.Contains(out, "app=climate-api") {
		t.Errorf("output = %q; want tint text line with app attr", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("output = %q; want text, got JSON", out)
	}
}

func TestNewLogger_respectsLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelWarn}

	logger := newLogger(&buf, cfg, "1.0.0", "climate-api")
	logger.Info("dropped")

	if buf.Len() != 0 {
		t.Errorf("info record written at warn level: %q", buf.String())
	}
}
