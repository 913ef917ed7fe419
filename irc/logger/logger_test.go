// Copyright (c) 2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package logger

import (
	"bytes"
	"strings"
	"testing"
)

func parsedConfig(t *testing.T, method, types, level string) LoggingConfig {
	config := LoggingConfig{
		Method:      method,
		TypeString:  types,
		LevelString: level,
	}
	if err := config.Parse(); err != nil {
		t.Fatalf("could not parse logging config: %v", err)
	}
	return config
}

func TestParseConfig(t *testing.T) {
	config := parsedConfig(t, "stdout stderr", "* -recv -send", "warn")
	if !config.MethodStdout || !config.MethodStderr || config.MethodFile {
		t.Errorf("unexpected methods: %#v", config)
	}
	if config.Level != LogWarning {
		t.Errorf("expected warning level, got %v", config.Level)
	}
	if len(config.Types) != 1 || config.Types[0] != "*" {
		t.Errorf("unexpected types: %v", config.Types)
	}
	if len(config.ExcludedTypes) != 2 {
		t.Errorf("unexpected excluded types: %v", config.ExcludedTypes)
	}
}

func TestParseConfigErrors(t *testing.T) {
	testCases := []LoggingConfig{
		{Method: "file", TypeString: "*", LevelString: "info"},
		{Method: "stdout", TypeString: "*", LevelString: "loud"},
		{Method: "stdout", TypeString: "-recv", LevelString: "info"},
		{Method: "stdout", TypeString: "* -", LevelString: "info"},
	}
	for _, config := range testCases {
		if err := config.Parse(); err == nil {
			t.Errorf("expected error for config %#v", config)
		}
	}
}

func TestLevelsAndTypes(t *testing.T) {
	var out bytes.Buffer
	logger := &Manager{stdout: &out}
	err := logger.ApplyConfig([]LoggingConfig{parsedConfig(t, "stdout", "* -keepalive", "info")})
	if err != nil {
		t.Fatal(err)
	}

	logger.Debug("connect", "hidden by level")
	logger.Info("keepalive", "hidden by type")
	logger.Info("connect", "Connecting", "irc.example.net:6697")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one line, got %q", out.String())
	}
	if !strings.Contains(lines[0], " : info  : connect      : Connecting : irc.example.net:6697") {
		t.Errorf("unexpected log line: %q", lines[0])
	}
}

func TestRawIO(t *testing.T) {
	logger := &Manager{}
	logger.ApplyConfig([]LoggingConfig{parsedConfig(t, "stdout", "*", "info")})
	if logger.IsLoggingRawIO() {
		t.Errorf("raw I/O should only be logged at debug level")
	}
	logger.ApplyConfig([]LoggingConfig{parsedConfig(t, "stdout", "* -recv -send", "debug")})
	if logger.IsLoggingRawIO() {
		t.Errorf("raw I/O types were excluded")
	}
	logger.ApplyConfig([]LoggingConfig{parsedConfig(t, "stdout", "recv", "debug")})
	if !logger.IsLoggingRawIO() {
		t.Errorf("raw I/O should be logged")
	}

	var nilManager *Manager
	if nilManager.IsLoggingRawIO() {
		t.Errorf("nil manager cannot log")
	}
	nilManager.Info("connect", "must not panic")
}
