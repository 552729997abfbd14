package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadMainConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadMainConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config should fall back to defaults: %v", err)
	}
	if cfg.StoreBackend != StoreJSON || cfg.StorePath != "./payslip_data.json" {
		t.Fatalf("unexpected store defaults %q %q", cfg.StoreBackend, cfg.StorePath)
	}
	if cfg.MaxConcurrency != 4 || !cfg.ShouldContinueOnError() {
		t.Fatalf("unexpected processing defaults %+v", cfg)
	}
	if len(cfg.FilePatterns) != 2 {
		t.Fatalf("expected default file patterns, got %v", cfg.FilePatterns)
	}
}

func TestLoadMainConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
input_dir: ./in
store_backend: SQLite
max_concurrency: 2
continue_on_error: false
archive_timestamp_subdirs: true
additional_categories: [Bonus, RTC]
`)
	cfg, err := LoadMainConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.InputDir != "./in" {
		t.Fatalf("input_dir not read: %q", cfg.InputDir)
	}
	if cfg.StoreBackend != StoreSQLite || cfg.StorePath != "./payslip_data.db" {
		t.Fatalf("sqlite defaults not applied: %q %q", cfg.StoreBackend, cfg.StorePath)
	}
	if cfg.MaxConcurrency != 2 || cfg.ShouldContinueOnError() || !cfg.ArchiveTimestampSubdirs {
		t.Fatalf("processing settings not read: %+v", cfg)
	}
	if strings.Join(cfg.AdditionalCategories, ",") != "Bonus,RTC" {
		t.Fatalf("additional categories not read: %v", cfg.AdditionalCategories)
	}
}

func TestLoadMainConfigEnvOverrides(t *testing.T) {
	t.Setenv(EnvStoreBackend, "sqlite")
	t.Setenv(EnvStorePath, "/tmp/ledger.db")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvMaxConcurrency, "8")

	cfg, err := LoadMainConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreBackend != StoreSQLite || cfg.StorePath != "/tmp/ledger.db" || cfg.LogLevel != "debug" || cfg.MaxConcurrency != 8 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadMainConfigInvalid(t *testing.T) {
	cases := map[string]string{
		"backend":     "store_backend: postgres\n",
		"format":      "log_format: xml\n",
		"concurrency": "max_concurrency: -1\n",
		"pattern":     "file_patterns: ['[']\n",
		"yaml":        "input_dir: [unterminated\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeFile(t, path, content)
			if _, err := LoadMainConfig(path); err == nil {
				t.Fatalf("expected error for %q", content)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}

	path := filepath.Join(dir, ".env")
	writeFile(t, path, "PAYSLIP_INPUT_DIR=/data/payslips\n")
	t.Setenv(EnvInputDir, "")
	os.Unsetenv(EnvInputDir)

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load .env: %v", err)
	}
	if got := os.Getenv(EnvInputDir); got != "/data/payslips" {
		t.Fatalf("expected .env value, got %q", got)
	}
}

func TestLoadLayoutConfigs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b_acme.yaml"), `
layout_name: Acme
file_matching_patterns: ["acme_*.pdf"]
categories:
  - name: Salary
    pattern: 'Basic Pay\s+(\d+(?:,\d+)*\.\d+)'
  - name: Meal Allowance
    pattern: 'Meal\s+(\d+\.\d+)\s+(\d+\.\d+)'
    group: 2
categories_xlsx: tables/acme.xlsx
line_rules:
  - type: collapse_spaces
`)
	writeFile(t, filepath.Join(dir, "a_other.yml"), "file_matching_patterns: ['other_*']\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	layouts, err := LoadLayoutConfigs(dir)
	if err != nil {
		t.Fatalf("load layouts: %v", err)
	}
	if len(layouts) != 2 {
		t.Fatalf("expected 2 layouts, got %d", len(layouts))
	}
	if layouts[0].LayoutName != "a_other" {
		t.Fatalf("layout name should default to the file name, got %q", layouts[0].LayoutName)
	}

	acme := layouts[1]
	defs := acme.Definitions()
	if len(defs) != 2 || defs[0].Group != 1 || defs[1].Group != 2 {
		t.Fatalf("unexpected definitions %+v", defs)
	}
	if acme.CategoriesXLSX != filepath.Join(dir, "tables", "acme.xlsx") {
		t.Fatalf("xlsx path not resolved: %q", acme.CategoriesXLSX)
	}
	if len(acme.LineRules) != 1 || acme.LineRules[0].Type != "collapse_spaces" {
		t.Fatalf("line rules not read: %+v", acme.LineRules)
	}
}

func TestLoadLayoutConfigsMissingDir(t *testing.T) {
	layouts, err := LoadLayoutConfigs(filepath.Join(t.TempDir(), "absent"))
	if err != nil || len(layouts) != 0 {
		t.Fatalf("expected no layouts and no error, got %v %v", layouts, err)
	}
}

func TestSelectLayout(t *testing.T) {
	acme := &LayoutConfig{LayoutName: "Acme", FileMatchingPatterns: []string{"acme_*.pdf"}}
	layouts := []*LayoutConfig{acme}

	if got := SelectLayout(layouts, "/in/acme_2023_01.pdf"); got != acme {
		t.Fatalf("expected acme layout, got %q", got.LayoutName)
	}
	if got := SelectLayout(layouts, "/in/ACME_2023_02.PDF"); got != acme {
		t.Fatalf("layout match should ignore case, got %q", got.LayoutName)
	}
	got := SelectLayout(layouts, "/in/payslip.txt")
	if got.LayoutName != DefaultLayoutName {
		t.Fatalf("expected default layout, got %q", got.LayoutName)
	}
	if len(got.Definitions()) != 0 {
		t.Fatalf("default layout carries no inline categories")
	}
}
