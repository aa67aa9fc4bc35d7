// Package common provides tests for message and logging functionality
package common

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
)

func TestSetVerboseMode(t *testing.T) {
	SetVerboseMode(true)
	if !VerboseMode {
		t.Error("SetVerboseMode(true) should enable verbose mode")
	}

	SetVerboseMode(false)
	if VerboseMode {
		t.Error("SetVerboseMode(false) should disable verbose mode")
	}
}

func TestLogDebug_VerboseEnabled(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	SetVerboseMode(true)
	defer SetVerboseMode(false)

	LogDebug("Record %04X placed", 0x12)

	output := buf.String()
	if !strings.Contains(output, "Record 0012 placed") {
		t.Errorf("LogDebug output should contain formatted message, got: %q", output)
	}
	if !strings.Contains(output, "[DEBUG]") {
		t.Errorf("LogDebug output should carry the DEBUG level, got: %q", output)
	}
}

func TestLogDebug_VerboseDisabled(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	SetVerboseMode(false)

	LogDebug("This should not appear", 42)

	if output := buf.String(); output != "" {
		t.Errorf("LogDebug should be silent when verbose mode is disabled, got: %q", output)
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		name  string
		logFn func(string, ...interface{})
		level string
	}{
		{"info", LogInfo, "[INFO]"},
		{"warn", LogWarn, "[WARN]"},
		{"error", LogError, "[ERROR]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log.SetOutput(&buf)
			defer log.SetOutput(os.Stderr)

			tt.logFn("value: %d", 123)

			output := buf.String()
			if !strings.Contains(output, "value: 123") {
				t.Errorf("output should contain formatted message, got: %q", output)
			}
			if !strings.Contains(output, tt.level) {
				t.Errorf("output should carry level %s, got: %q", tt.level, output)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	baseMessage := "Base error message"
	originalError := fmt.Errorf("original error")

	formattedError := FormatError(baseMessage, originalError)

	expectedMessage := "Base error message: original error"
	if formattedError.Error() != expectedMessage {
		t.Errorf("FormatError() = %q, want %q", formattedError.Error(), expectedMessage)
	}
}

func TestFormatError_NonError(t *testing.T) {
	formattedError := FormatError("base", 42)
	if formattedError.Error() != "base: 42" {
		t.Errorf("FormatError() = %q, want %q", formattedError.Error(), "base: 42")
	}
}

func TestFormatErrorString(t *testing.T) {
	err := FormatErrorString("base", "details %d", 7)
	if err.Error() != "base: details 7" {
		t.Errorf("FormatErrorString() = %q, want %q", err.Error(), "base: details 7")
	}
}
