package filelog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverrides applies string key-value overrides to the configuration.
// Each override should be in the format "key=value". All overrides are
// attempted and their errors reported together.
//
// Example:
//
//	cfg := filelog.DefaultConfig()
//	err := cfg.ApplyOverrides(
//	    "directory=/var/lib/app/logs",
//	    "min_level=warn",
//	    "max_file_size=1MB",
//	)
func (c *Config) ApplyOverrides(overrides ...string) error {
	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(c, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	return combineConfigErrors(errors)
}

// NewConfigFromOverrides returns a validated default configuration with overrides applied
func NewConfigFromOverrides(overrides ...string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.ApplyOverrides(overrides...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString(errorPrefix + "multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), errorPrefix)
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Size and retention
	case "max_file_size":
		size, err := parseSize(value)
		if err != nil {
			return fmtErrorf("invalid size value for max_file_size '%s': %w", value, err)
		}
		cfg.MaxFileSize = size
	case "max_files":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for max_files '%s': %w", value, err)
		}
		cfg.MaxFiles = intVal

	// File naming
	case "directory":
		cfg.Directory = value
	case "prefix":
		cfg.Prefix = value
	case "extension":
		cfg.Extension = value

	// Behaviour
	case "enabled":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for enabled '%s': %w", value, err)
		}
		cfg.Enabled = boolVal
	case "min_level":
		// Accept both numeric and named values
		if numVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			cfg.MinLevel = numVal
		} else {
			levelVal, err := Level(value)
			if err != nil {
				return fmtErrorf("invalid level value '%s': %w", value, err)
			}
			cfg.MinLevel = levelVal
		}
	case "include_stack_trace":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for include_stack_trace '%s': %w", value, err)
		}
		cfg.IncludeStackTrace = boolVal
	case "stack_depth":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for stack_depth '%s': %w", value, err)
		}
		cfg.StackDepth = intVal
	case "sanitization":
		cfg.Sanitization = value

	// Process safety
	case "lock_directory":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for lock_directory '%s': %w", value, err)
		}
		cfg.LockDirectory = boolVal

	// Internal error handling
	case "internal_errors_to_stderr":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for internal_errors_to_stderr '%s': %w", value, err)
		}
		cfg.InternalErrorsToStderr = boolVal

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}
