// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads, saves and validates the FracVault process
// configuration and builds the process logger from it.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// StoreBolt selects the durable bbolt record store.
	StoreBolt = "bolt"
	// StoreMemory selects the in-memory record store.
	StoreMemory = "memory"

	// DefaultCustodyFeeBps is the only custody fee rate the engine accepts.
	DefaultCustodyFeeBps uint16 = 100

	configFileName = "config"
	recordsFile    = "records.db"
)

// Config holds the process configuration.
type Config struct {
	DataDir        string
	Store          string
	LogLevel       string
	LogFile        string
	CustodyFeeBps  uint16
	FeeDestination string
}

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() Config {
	return Config{
		DataDir:       DefaultDataDir(),
		Store:         StoreBolt,
		LogLevel:      "info",
		CustodyFeeBps: DefaultCustodyFeeBps,
	}
}

// DefaultDataDir returns ~/.fracvault, or .fracvault in the working
// directory when the home directory cannot be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fracvault"
	}
	return filepath.Join(home, ".fracvault")
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, configFileName)
}

// RecordsPath returns the bbolt record store path inside dataDir.
func RecordsPath(dataDir string) string {
	return filepath.Join(dataDir, recordsFile)
}

// LoadConfig reads a key = value config file. Keys absent from the file keep
// their default values; unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		if err := cfg.set(key, value); err != nil {
			return cfg, fmt.Errorf("%w: line %d: %w", ErrInvalidConfigLine, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# FracVault Configuration\n\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "store = %s\n", cfg.Store)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)
	fmt.Fprintf(&b, "feebps = %d\n", cfg.CustodyFeeBps)
	fmt.Fprintf(&b, "feedest = %s\n", cfg.FeeDestination)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// parseKeyValue splits a line on the first '='.
func parseKeyValue(line string) (string, string, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", ErrInvalidConfigLine
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", ErrInvalidConfigLine
	}
	return key, strings.TrimSpace(value), nil
}

func (c *Config) set(key, value string) error {
	switch key {
	case "datadir":
		c.DataDir = value
	case "store":
		c.Store = value
	case "loglevel":
		c.LogLevel = value
	case "logfile":
		c.LogFile = value
	case "feebps":
		n, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return fmt.Errorf("feebps: %w", err)
		}
		c.CustodyFeeBps = uint16(n)
	case "feedest":
		c.FeeDestination = value
	}
	return nil
}
