package filelog

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"

	"github.com/lixenwraith/filelog/sanitizer"
)

// configPrefix is the TOML table holding logger settings
const configPrefix = "filelog."

// Config holds all logger configuration values. It is copied on construction
// and immutable for the lifetime of a Logger.
//
// Start from DefaultConfig (or a NewConfigFrom* constructor) to control every
// field. A Config built as a literal has each zero-valued field replaced by
// its default, so a literal cannot turn a boolean off or select debug level.
type Config struct {
	// Size and retention
	MaxFileSize int64 `toml:"max_file_size"` // Rotation threshold in bytes
	MaxFiles    int64 `toml:"max_files"`     // Retained log files including the active one

	// File naming
	Directory string `toml:"directory"` // Empty resolves to <data directory>/logs
	Prefix    string `toml:"prefix"`    // File name prefix before the date
	Extension string `toml:"extension"` // File extension without leading dot

	// Behaviour
	Enabled           bool   `toml:"enabled"`             // Master switch, false drops every event
	MinLevel          int64  `toml:"min_level"`           // Events below this level are discarded
	IncludeStackTrace bool   `toml:"include_stack_trace"` // Attach call stack to error events
	StackDepth        int64  `toml:"stack_depth"`         // Frames kept in a captured stack
	Sanitization      string `toml:"sanitization"`        // "raw", "line" or "txt"

	// Process safety
	LockDirectory bool `toml:"lock_directory"` // Advisory lock on the log directory

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Write internal errors to stderr

	fromDefaults bool // set by DefaultConfig, zero for literals
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Size and retention
	MaxFileSize: 5 * sizeMultiplier * sizeMultiplier,
	MaxFiles:    5,

	// File naming
	Directory: "",
	Prefix:    "app-log",
	Extension: "log",

	// Behaviour
	Enabled:           true,
	MinLevel:          LevelLog,
	IncludeStackTrace: true,
	StackDepth:        10,
	Sanitization:      string(sanitizer.PolicyRaw),

	// Process safety
	LockDirectory: true,

	// Internal error handling
	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	copiedConfig.fromDefaults = true
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config.
// Settings live under the [filelog] table, absent keys keep their defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	if err := loader.RegisterStruct(configPrefix, *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	// A missing file leaves the defaults in place
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, configPrefix, cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides keyed by TOML name
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig copies values found by the loader into cfg
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		if tomlTag := t.Field(i).Tag.Get("toml"); tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			// TOML decoders may surface integers as floats
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// applyDefaults fills zero-valued numeric and string fields
func (c *Config) applyDefaults() {
	if c.MaxFileSize == 0 {
		c.MaxFileSize = defaultConfig.MaxFileSize
	}
	if c.MaxFiles == 0 {
		c.MaxFiles = defaultConfig.MaxFiles
	}
	if c.Prefix == "" {
		c.Prefix = defaultConfig.Prefix
	}
	if c.Extension == "" {
		c.Extension = defaultConfig.Extension
	}
	if c.StackDepth == 0 {
		c.StackDepth = defaultConfig.StackDepth
	}
	if c.Sanitization == "" {
		c.Sanitization = defaultConfig.Sanitization
	}
}

// applyLiteralDefaults treats every zero-valued field of a literal Config as unset
func (c *Config) applyLiteralDefaults() {
	c.applyDefaults()
	if !c.Enabled {
		c.Enabled = defaultConfig.Enabled
	}
	if c.MinLevel == 0 {
		c.MinLevel = defaultConfig.MinLevel
	}
	if !c.IncludeStackTrace {
		c.IncludeStackTrace = defaultConfig.IncludeStackTrace
	}
	if !c.LockDirectory {
		c.LockDirectory = defaultConfig.LockDirectory
	}
	if !c.InternalErrorsToStderr {
		c.InternalErrorsToStderr = defaultConfig.InternalErrorsToStderr
	}
	c.fromDefaults = true
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c.MaxFileSize <= 0 {
		return fmtErrorf("max_file_size must be positive: %d", c.MaxFileSize)
	}

	if c.MaxFiles <= 0 {
		return fmtErrorf("max_files must be positive: %d", c.MaxFiles)
	}

	if strings.TrimSpace(c.Prefix) == "" {
		return fmtErrorf("prefix cannot be empty")
	}
	if strings.ContainsAny(c.Prefix, `/\`) || c.Prefix != filepath.Base(c.Prefix) {
		return fmtErrorf("prefix must not contain path separators: %s", c.Prefix)
	}

	if strings.TrimSpace(c.Extension) == "" {
		return fmtErrorf("extension cannot be empty")
	}
	if strings.HasPrefix(c.Extension, ".") {
		return fmtErrorf("extension should not start with dot: %s", c.Extension)
	}
	if strings.ContainsAny(c.Extension, `/\`) {
		return fmtErrorf("extension must not contain path separators: %s", c.Extension)
	}

	if c.MinLevel < LevelDebug || c.MinLevel > LevelError {
		return fmtErrorf("min_level must be between %d and %d: %d", LevelDebug, LevelError, c.MinLevel)
	}

	if c.StackDepth < 1 || c.StackDepth > maxStackDepth {
		return fmtErrorf("stack_depth must be between 1 and %d: %d", maxStackDepth, c.StackDepth)
	}

	if !sanitizer.IsPolicy(c.Sanitization) {
		return fmtErrorf("invalid sanitization: '%s' (use raw, line, or txt)", c.Sanitization)
	}

	return nil
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}
