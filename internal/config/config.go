// =============================================================================
// Payslip Ledger - Configuration Module
// =============================================================================
//
// This module loads the main application configuration and the per-employer
// layout configurations.
//
// CONFIGURATION FILES:
//   1. Main Config (config.yaml): Global application settings
//   2. Layout Configs (layouts/*.yaml): Category tables and line rules for a
//      particular payslip layout
//   3. .env (optional): Environment overrides for the store and log level
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ginjaninja78/payslip-ledger/internal/extractor"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store backends
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Environment variables that override the main configuration.
const (
	EnvStoreBackend   = "PAYSLIP_STORE_BACKEND"
	EnvStorePath      = "PAYSLIP_STORE_PATH"
	EnvLogLevel       = "PAYSLIP_LOG_LEVEL"
	EnvInputDir       = "PAYSLIP_INPUT_DIR"
	EnvMaxConcurrency = "PAYSLIP_MAX_CONCURRENCY"
)

// DefaultLayoutName is used for the built-in layout.
const DefaultLayoutName = "default"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is the directory scanned for payslip documents.
	// Default: "./payslips"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives exports and run logs.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir is where documents are moved after a successful
	// extraction, when ArchiveOnSuccess is set.
	// Default: "./payslips_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// ArchiveOnSuccess moves extracted documents into InputArchiveDir.
	// Default: false
	ArchiveOnSuccess bool `yaml:"archive_on_success"`

	// ArchiveTimestampSubdirs archives into YYYY/MM/DD subdirectories of
	// InputArchiveDir.
	// Default: false
	ArchiveTimestampSubdirs bool `yaml:"archive_timestamp_subdirs"`

	// LayoutsDir contains the layout configuration files.
	// Default: "./layouts"
	LayoutsDir string `yaml:"layouts_dir"`

	// =========================================================================
	// STORE SETTINGS
	// =========================================================================

	// StoreBackend selects the record store: "json" or "sqlite".
	// Default: "json"
	StoreBackend string `yaml:"store_backend"`

	// StorePath is the path of the JSON file or SQLite database.
	// Default: "./payslip_data.json" or "./payslip_data.db"
	StorePath string `yaml:"store_path"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// FilePatterns are the glob patterns used to discover documents.
	// Default: ["*.pdf", "*.txt"]
	FilePatterns []string `yaml:"file_patterns"`

	// OutputNameFormat defines export file names.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {kind}      - Export kind (records, summary)
	// Default: "payslips_{timestamp}"
	OutputNameFormat string `yaml:"output_name_format"`

	// MaxConcurrency is the maximum number of documents extracted at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps the batch going when a document fails.
	// Default: true
	ContinueOnError *bool `yaml:"continue_on_error"`

	// AdditionalCategories is the default category set of the
	// additional-payments report.
	// Default: Overtimes, NOC Shift Differential, Bonus
	AdditionalCategories []string `yaml:"additional_categories"`
}

// ShouldContinueOnError reports the effective continue_on_error setting.
func (c *MainConfig) ShouldContinueOnError() bool {
	return c.ContinueOnError == nil || *c.ContinueOnError
}

// =============================================================================
// LAYOUT CONFIGURATION STRUCTURE
// =============================================================================

// LayoutConfig describes one payslip layout: which documents it applies to,
// how their text lines are normalised and which categories are extracted.
type LayoutConfig struct {
	// LayoutName is the human-readable name used in logs.
	LayoutName string `yaml:"layout_name"`

	// FileMatchingPatterns is a list of glob patterns matched against the
	// document's base name.
	//
	// CUSTOMIZATION: Examples:
	//   - "acme_*.pdf"
	//   - "*_payslip_*.txt"
	FileMatchingPatterns []string `yaml:"file_matching_patterns"`

	// Categories is the category table. When both this and CategoriesXLSX
	// are empty the built-in default categories are used.
	Categories []CategoryConfig `yaml:"categories"`

	// CategoriesXLSX optionally points at a workbook holding the category
	// table (columns Category, Pattern, Group). Relative paths are resolved
	// against the layout file's directory. Rows are appended after Categories.
	CategoriesXLSX string `yaml:"categories_xlsx,omitempty"`

	// LineRules are applied, in order, to every text line before matching.
	LineRules []LineRule `yaml:"line_rules"`

	// SourcePath is the file the layout was loaded from.
	SourcePath string `yaml:"-"`
}

// CategoryConfig is one row of a category table.
type CategoryConfig struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Group   int    `yaml:"group"`
}

// LineRule defines a single text normalisation action.
type LineRule struct {
	// Type is the type of transformation to apply.
	// Supported types:
	//   - "trim"            : Remove leading and trailing whitespace
	//   - "collapse_spaces" : Replace runs of whitespace with one space
	//   - "replace"         : Replace Find with Value
	//   - "regex_replace"   : Replace matches of Find with Value
	//   - "uppercase"       : Convert to uppercase
	//   - "lowercase"       : Convert to lowercase
	Type string `yaml:"type"`

	// Value is the replacement for "replace" and "regex_replace".
	Value string `yaml:"value,omitempty"`

	// Find is the substring or pattern to find.
	Find string `yaml:"find,omitempty"`
}

// Definitions converts the layout's inline category table into extractor
// definitions. Group defaults to 1. Rows from CategoriesXLSX and the default
// fallback are resolved by the caller.
func (l *LayoutConfig) Definitions() []extractor.Definition {
	defs := make([]extractor.Definition, 0, len(l.Categories))
	for _, c := range l.Categories {
		group := c.Group
		if group == 0 {
			group = 1
		}
		defs = append(defs, extractor.Definition{Name: c.Name, Pattern: c.Pattern, Group: group})
	}
	return defs
}

// Matches reports whether the document path matches one of the layout's
// file patterns.
func (l *LayoutConfig) Matches(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, pattern := range l.FileMatchingPatterns {
		if ok, err := filepath.Match(strings.ToLower(pattern), base); err == nil && ok {
			return true
		}
	}
	return false
}

// DefaultLayout returns the built-in layout with the default categories.
func DefaultLayout() *LayoutConfig {
	return &LayoutConfig{
		LayoutName: DefaultLayoutName,
		LineRules:  []LineRule{{Type: "trim"}},
	}
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file. A missing file is
//     not an error; defaults are used.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed, or the result is invalid.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Run on defaults.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnvOverrides(&config); err != nil {
		return nil, err
	}
	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadDotEnv loads a .env file into the process environment. A missing file
// is ignored. Variables already set are not overwritten.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(config *MainConfig) error {
	if v := os.Getenv(EnvStoreBackend); v != "" {
		config.StoreBackend = v
	}
	if v := os.Getenv(EnvStorePath); v != "" {
		config.StorePath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv(EnvInputDir); v != "" {
		config.InputDir = v
	}
	if v := os.Getenv(EnvMaxConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxConcurrency, v, err)
		}
		config.MaxConcurrency = n
	}
	return nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./payslips"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./payslips_archive"
	}
	if config.LayoutsDir == "" {
		config.LayoutsDir = "./layouts"
	}
	config.StoreBackend = strings.ToLower(strings.TrimSpace(config.StoreBackend))
	if config.StoreBackend == "" {
		config.StoreBackend = StoreJSON
	}
	if config.StorePath == "" {
		if config.StoreBackend == StoreSQLite {
			config.StorePath = "./payslip_data.db"
		} else {
			config.StorePath = "./payslip_data.json"
		}
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
	if len(config.FilePatterns) == 0 {
		config.FilePatterns = []string{"*.pdf", "*.txt"}
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "payslips_{timestamp}"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
}

// validateMainConfig validates the main configuration. Directories are not
// created here; commands create what they write to.
func validateMainConfig(config *MainConfig) error {
	var problems []string

	switch config.StoreBackend {
	case StoreJSON, StoreSQLite:
	default:
		problems = append(problems, fmt.Sprintf("store_backend must be %q or %q, got %q", StoreJSON, StoreSQLite, config.StoreBackend))
	}

	switch strings.ToLower(config.LogFormat) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log_format must be \"text\" or \"json\", got %q", config.LogFormat))
	}

	if config.MaxConcurrency < 1 {
		problems = append(problems, fmt.Sprintf("max_concurrency must be at least 1, got %d", config.MaxConcurrency))
	}

	for _, pattern := range config.FilePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			problems = append(problems, fmt.Sprintf("invalid file pattern %q: %v", pattern, err))
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// LoadLayoutConfigs loads all layout configurations from a directory, sorted
// by file name. A missing directory yields no layouts.
func LoadLayoutConfigs(layoutsDir string) ([]*LayoutConfig, error) {
	if _, err := os.Stat(layoutsDir); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(layoutsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list layout files: %w", err)
	}

	ymlFiles, err := filepath.Glob(filepath.Join(layoutsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list layout files: %w", err)
	}
	files = append(files, ymlFiles...)

	layouts := make([]*LayoutConfig, 0, len(files))
	for _, file := range files {
		layout, err := LoadLayoutConfig(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		layouts = append(layouts, layout)
	}

	sortLayouts(layouts)
	return layouts, nil
}

// LoadLayoutConfig loads a single layout configuration file.
func LoadLayoutConfig(filePath string) (*LayoutConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var layout LayoutConfig
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}

	layout.SourcePath = filePath
	if layout.LayoutName == "" {
		layout.LayoutName = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}
	if layout.CategoriesXLSX != "" && !filepath.IsAbs(layout.CategoriesXLSX) {
		layout.CategoriesXLSX = filepath.Join(filepath.Dir(filePath), layout.CategoriesXLSX)
	}

	return &layout, nil
}

// SelectLayout returns the first layout whose patterns match the document,
// or a new built-in default.
func SelectLayout(layouts []*LayoutConfig, path string) *LayoutConfig {
	for _, layout := range layouts {
		if layout.Matches(path) {
			return layout
		}
	}
	return DefaultLayout()
}

func sortLayouts(layouts []*LayoutConfig) {
	sort.Slice(layouts, func(i, j int) bool {
		return layouts[i].SourcePath < layouts[j].SourcePath
	})
}
