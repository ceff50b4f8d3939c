package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geofig/pkg/pipeline"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{log.InfoLevel, func(l *log.Logger) { l.Info("batch start") }, true},
		{log.InfoLevel, func(l *log.Logger) { l.Debug("loading config") }, false},
		{log.DebugLevel, func(l *log.Logger) { l.Debug("loading config") }, true},
		{log.WarnLevel, func(l *log.Logger) { l.Info("rendered figure") }, false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		tt.emit(newLogger(&buf, tt.level))
		if got := buf.Len() > 0; got != tt.want {
			t.Errorf("level %s: wrote output = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Wrote 6 files for 3 figures")

	out := buf.String()
	if !strings.Contains(out, "Wrote 6 files for 3 figures (") || !strings.HasSuffix(strings.TrimSpace(out), "s)") {
		t.Errorf("progress line %q lacks the message and elapsed time", out)
	}
}

func TestLogResult(t *testing.T) {
	tests := []struct {
		name string
		res  *pipeline.Result
		want string
	}{
		{"rendered", rendered("q1"), "rendered"},
		{"failed", failed("q2"), "placeholder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logResult(newLogger(&buf, log.DebugLevel), 1, 2, tt.res)
			out := buf.String()
			if !strings.Contains(out, tt.want) || !strings.Contains(out, tt.res.ID) || !strings.Contains(out, "1/2") {
				t.Errorf("log line %q missing %q", out, tt.want)
			}
		})
	}
}
