// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// DefaultConfig tests
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"Store", cfg.Store, "bolt"},
		{"SponsorMode", cfg.SponsorMode, "lenient"},
		{"RatePolicy", cfg.RatePolicy, "admin"},
		{"CatalogFile", cfg.CatalogFile, ""},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFile", cfg.LogFile, ""},
		{"ResetOnCorrupt", cfg.ResetOnCorrupt, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}

	// DataDir should end with .referral (we don't assert the full path
	// since it depends on the home directory).
	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
}

// ---------------------------------------------------------------------------
// SaveConfig / LoadConfig round-trip tests
// ---------------------------------------------------------------------------

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	original := Config{
		DataDir:        "/tmp/test-referral",
		Store:          "file",
		SponsorMode:    "strict",
		RatePolicy:     "capped",
		CatalogFile:    "/tmp/catalog.toml",
		LogLevel:       "debug",
		LogFile:        "/tmp/referral.log",
		ResetOnCorrupt: true,
	}

	if err := SaveConfig(path, original); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if loaded != original {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, original)
	}
}

func TestSaveConfigCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config")

	cfg := DefaultConfig()
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Config file not created: %v", err)
	}
}

// ---------------------------------------------------------------------------
// LoadConfig error tests
// ---------------------------------------------------------------------------

func TestLoadConfigNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig nonexistent: got %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfigInvalidLine(t *testing.T) {
	for _, content := range []string{"this-is-not-key-value\n", " = value\n", "resetoncorrupt = maybe\n"} {
		dir := t.TempDir()
		path := filepath.Join(dir, "config")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidConfigLine) {
			t.Errorf("LoadConfig %q: got %v, want ErrInvalidConfigLine", content, err)
		}
	}
}

func TestLoadConfigCommentsAndBlanks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	content := `# This is a comment
sponsormode = strict

# Another comment
loglevel = debug
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.SponsorMode != "strict" {
		t.Errorf("SponsorMode = %q, want %q", cfg.SponsorMode, "strict")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	// Unset fields should retain defaults.
	if cfg.Store != "bolt" {
		t.Errorf("Store = %q, want default %q", cfg.Store, "bolt")
	}
}

func TestLoadConfigUnknownKeysIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	content := "futurekey = futurevalue\nstore = memory\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig with unknown key: %v", err)
	}
	if cfg.Store != "memory" {
		t.Errorf("Store = %q, want %q", cfg.Store, "memory")
	}
}

func TestLoadConfig_MultipleEquals(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	// parseKeyValue should split on the first '=' only.
	content := "logfile=/tmp/a=b.log\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogFile != "/tmp/a=b.log" {
		t.Errorf("LogFile = %q, want %q", cfg.LogFile, "/tmp/a=b.log")
	}
}

func TestLoadConfig_WhitespaceAndCase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	content := "  SponsorMode = strict  \n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.SponsorMode != "strict" {
		t.Errorf("SponsorMode = %q, want %q", cfg.SponsorMode, "strict")
	}
}

// ---------------------------------------------------------------------------
// SaveConfig output format
// ---------------------------------------------------------------------------

func TestSaveConfig_OutputContainsAllKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	if err := SaveConfig(path, DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "# Referral Ledger Configuration") {
		t.Error("saved config should contain header")
	}
	keys := []string{"datadir", "store", "sponsormode", "ratepolicy", "catalog", "loglevel", "logfile", "resetoncorrupt"}
	for _, key := range keys {
		if !strings.Contains(content, key+" = ") {
			t.Errorf("saved config should contain key %q", key)
		}
	}
}

// ---------------------------------------------------------------------------
// ValidateConfig tests
// ---------------------------------------------------------------------------

func TestValidateConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("ValidateConfig(DefaultConfig()) = %v, want nil", err)
	}
}

func TestValidateConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "empty_datadir",
			modify:  func(c *Config) { c.DataDir = "" },
			wantErr: ErrEmptyDataDir,
		},
		{
			name:    "bad_store",
			modify:  func(c *Config) { c.Store = "postgres" },
			wantErr: ErrInvalidStore,
		},
		{
			name:    "bad_sponsor_mode",
			modify:  func(c *Config) { c.SponsorMode = "loose" },
			wantErr: ErrInvalidSponsorMode,
		},
		{
			name:    "bad_rate_policy",
			modify:  func(c *Config) { c.RatePolicy = "unlimited" },
			wantErr: ErrInvalidRatePolicy,
		},
		{
			name:    "bad_loglevel",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			err := ValidateConfig(cfg)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ValidateConfig: got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateConfigMemoryStoreNeedsNoDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store = StoreMemory
	cfg.DataDir = ""
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("ValidateConfig memory store: %v", err)
	}
}

func TestValidateConfig_CaseInsensitive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "WARN"
	cfg.SponsorMode = "Strict"
	cfg.RatePolicy = "CAPPED"
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("ValidateConfig mixed case: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Paths
// ---------------------------------------------------------------------------

func TestConfigPath(t *testing.T) {
	got := ConfigPath("/home/user/.referral")
	want := filepath.Join("/home/user/.referral", "config")
	if got != want {
		t.Errorf("ConfigPath = %q, want %q", got, want)
	}
}

func TestStorePath(t *testing.T) {
	cfg := Config{DataDir: "/data"}
	for store, want := range map[string]string{
		StoreBolt:   filepath.Join("/data", "referral.db"),
		StoreFile:   filepath.Join("/data", "ledger.json"),
		StoreMemory: "",
	} {
		cfg.Store = store
		if got := cfg.StorePath(); got != want {
			t.Errorf("StorePath(%s) = %q, want %q", store, got, want)
		}
	}
}

func TestDefaultDataDir_EndsWith_DotReferral(t *testing.T) {
	dir := DefaultDataDir()
	if !strings.HasSuffix(dir, ".referral") {
		t.Errorf("DefaultDataDir() = %q, want suffix %q", dir, ".referral")
	}
}
