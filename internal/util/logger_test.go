package util

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"loud", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if ValidLevel("loud") || !ValidLevel("warning") {
		t.Error("ValidLevel disagrees with ParseLevel")
	}
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format       string
		wantEncoding string
	}{
		{"console", "console"},
		{"json", "json"},
	}

	for _, tt := range tests {
		config := buildConfig("error", tt.format)
		if config.Encoding != tt.wantEncoding {
			t.Errorf("%s: Encoding = %q, want %q", tt.format, config.Encoding, tt.wantEncoding)
		}
		if !config.DisableStacktrace {
			t.Errorf("%s: stack traces are enabled", tt.format)
		}
		if config.Level.Level() != zapcore.ErrorLevel {
			t.Errorf("%s: Level = %v, want error", tt.format, config.Level.Level())
		}
		if len(config.OutputPaths) != 1 || config.OutputPaths[0] != "stderr" {
			t.Errorf("%s: OutputPaths = %v, want stderr only", tt.format, config.OutputPaths)
		}
	}
}
