package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jwebster45206/hallway/internal/config"
	"github.com/jwebster45206/hallway/pkg/npc"
)

func TestSetup_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&config.Config{Environment: "production", LogLevel: slog.LevelInfo}, &buf)

	WithNPC(log, npc.ID(3)).Info("Emotions saved")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("Expected JSON output, got %q", buf.String())
	}
	if record["npc_id"] != "3" {
		t.Errorf("Expected npc_id attribute, got %v", record)
	}
}

func TestSetup_DevelopmentRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&config.Config{Environment: "development", LogLevel: slog.LevelWarn}, &buf)

	log.Info("hidden")
	WithError(log, errors.New("boom")).Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Info record should be filtered at warn level")
	}
	if !strings.Contains(out, "error=boom") {
		t.Errorf("Expected text error attribute, got %q", out)
	}
}

func TestSetupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "game.log")
	log, closer, err := SetupFile(&config.Config{LogFile: path, LogLevel: slog.LevelInfo})
	if err != nil {
		t.Fatalf("Failed to set up file logger: %v", err)
	}
	log.Info("session started")
	if err := closer.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "session started") {
		t.Errorf("Expected record in file, got %q", data)
	}
}
