package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("loaded") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("bound tried") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("bound tried") }, true},
		{"warn at error level", log.ErrorLevel, func(l *log.Logger) { l.Warn("cache down") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))

	time.Sleep(5 * time.Millisecond)
	prog.done("Loaded 5 nodes")

	out := buf.String()
	if !strings.Contains(out, "Loaded 5 nodes (") || !strings.Contains(out, "ms)") {
		t.Errorf("progress output = %q, want message with elapsed time", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default()")
	}

	custom := newLogger(&bytes.Buffer{}, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestLoadConfigAppliesLogLevel(t *testing.T) {
	cfg := writeFile(t, "config.toml", "[log]\nlevel = \"debug\"\n")

	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)
	c.configPath = cfg

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	if err := c.loadConfig(cmd); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
	if loggerFromContext(cmd.Context()) != c.Logger {
		t.Error("command context should carry the CLI logger")
	}
}
