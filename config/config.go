// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config reads and writes the referral ledger configuration file,
// a flat "key = value" text file with '#' comments.
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

// Store back ends.
const (
	StoreBolt   = "bolt"
	StoreFile   = "file"
	StoreMemory = "memory"
)

const (
	configFileName = "config"
	boltFileName   = "referral.db"
	jsonFileName   = "ledger.json"
)

// Config holds the library settings.
type Config struct {
	DataDir        string // directory holding the store and config file
	Store          string // "bolt", "file" or "memory"
	SponsorMode    string // "strict" or "lenient"
	RatePolicy     string // "admin" or "capped"
	CatalogFile    string // optional TOML product seed; empty = reference products
	LogLevel       string
	LogFile        string // empty = stdout
	ResetOnCorrupt bool   // reinitialize instead of failing on a corrupt store
}

// DefaultDataDir returns ~/.referral, or ./.referral if the home directory
// cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".referral"
	}
	return filepath.Join(home, ".referral")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DataDir:     DefaultDataDir(),
		Store:       StoreBolt,
		SponsorMode: "lenient",
		RatePolicy:  "admin",
		LogLevel:    "info",
	}
}

// ConfigPath returns the configuration file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, configFileName)
}

// StorePath returns the document path for the configured back end, or ""
// for the memory store.
func (c Config) StorePath() string {
	switch c.Store {
	case StoreBolt:
		return filepath.Join(c.DataDir, boltFileName)
	case StoreFile:
		return filepath.Join(c.DataDir, jsonFileName)
	}
	return ""
}

// LoadConfig reads the file at path on top of DefaultConfig. Unknown keys
// are ignored so older builds can read newer files.
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

// parseKeyValue splits "key = value" on the first '='.
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
	case "sponsormode":
		c.SponsorMode = value
	case "ratepolicy":
		c.RatePolicy = value
	case "catalog":
		c.CatalogFile = value
	case "loglevel":
		c.LogLevel = value
	case "logfile":
		c.LogFile = value
	case "resetoncorrupt":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("resetoncorrupt: %w", err)
		}
		c.ResetOnCorrupt = b
	}
	return nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Referral Ledger Configuration\n\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "store = %s\n", cfg.Store)
	fmt.Fprintf(&b, "sponsormode = %s\n", cfg.SponsorMode)
	fmt.Fprintf(&b, "ratepolicy = %s\n", cfg.RatePolicy)
	fmt.Fprintf(&b, "catalog = %s\n", cfg.CatalogFile)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)
	fmt.Fprintf(&b, "resetoncorrupt = %t\n", cfg.ResetOnCorrupt)

	return os.WriteFile(path, []byte(b.String()), 0600)
}
