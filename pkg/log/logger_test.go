package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    Level
		wantErr bool
	}{
		{"debug", Debug, false},
		{"INFO", Info, false},
		{" warning ", Warning, false},
		{"error", Error, false},
		{"verbose", Notice, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSetLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stderr)

	SetLevel(Warning)
	defer SetLevel(Notice)

	logger := New("test")
	logger.Info("hidden")
	logger.Warning("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected info message to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "[test]") {
		t.Errorf("Expected warning tagged with module, got %q", out)
	}
}
