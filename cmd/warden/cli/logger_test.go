// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewCommandLogger_JSONWhenPiped(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewCommandLogger(&buffer, slog.LevelInfo).With("command", "sweep")
	logger.Debug("hidden")
	logger.Info("swept", "removed", 2)

	var record map[string]any
	if err := json.Unmarshal(buffer.Bytes(), &record); err != nil {
		t.Fatalf("output %q is not a single JSON record: %v", buffer.String(), err)
	}
	if record["msg"] != "swept" || record["command"] != "sweep" || record["removed"] != float64(2) {
		t.Errorf("record = %v", record)
	}
}

func TestTerminalWidthFallback(t *testing.T) {
	var buffer bytes.Buffer
	if IsTerminal(&buffer) {
		t.Error("a buffer reported as a terminal")
	}
	if got := TerminalWidth(&buffer, 72); got != 72 {
		t.Errorf("TerminalWidth = %d, want the fallback 72", got)
	}
}
