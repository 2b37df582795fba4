// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fmkit/fmkit/pkg/fmparser"
)

const (
	// ColorSchemeAuto detects the color scheme from the terminal
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark color scheme
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light color scheme
	ColorSchemeLight ColorScheme = "light"

	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	defaultDebounce = "500ms"
)

var (
	// ErrInvalidColorScheme is the sentinel error wrapped by InvalidColorSchemeError.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is the sentinel error wrapped by InvalidLogLevelError.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects the palette used for styled CLI output.
	ColorScheme string

	// LogLevel is the minimum level of log records written to stderr.
	LogLevel string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError collects every field-level problem found in a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// DefaultFormat is the reader used when --format is not given ("auto" detects by extension)
		DefaultFormat string `json:"default_format" mapstructure:"default_format"`
		// Log configures diagnostics
		Log LogConfig `json:"log" mapstructure:"log"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Parser configures the model readers
		Parser ParserConfig `json:"parser" mapstructure:"parser"`
		// Batch configures `fmkit check`
		Batch BatchConfig `json:"batch" mapstructure:"batch"`
		// Watch configures `fmkit watch`
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
	}

	// LogConfig configures diagnostics.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// ParserConfig configures the model readers.
	ParserConfig struct {
		// MaxFileSize is the largest model file, in bytes, a reader accepts
		MaxFileSize int64 `json:"max_file_size" mapstructure:"max_file_size"`
	}

	// BatchConfig configures concurrent parsing.
	BatchConfig struct {
		Concurrency int `json:"concurrency" mapstructure:"concurrency"`
	}

	// WatchConfig configures the file watcher.
	WatchConfig struct {
		// Debounce is a Go duration string such as "500ms"
		Debounce string `json:"debounce" mapstructure:"debounce"`
		// Ignore lists doublestar patterns relative to the watched directory
		Ignore []string `json:"ignore" mapstructure:"ignore"`
	}
)

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// Validate returns an error if the ColorScheme is not one of the defined schemes.
func (cs ColorScheme) Validate() error {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: cs}
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// Validate returns an error if the LogLevel is not one of the defined levels.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// Level converts the LogLevel to a charm log level. Unknown values map to info.
func (l LogLevel) Level() log.Level {
	switch l {
	case LogLevelDebug:
		return log.DebugLevel
	case LogLevelWarn:
		return log.WarnLevel
	case LogLevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Format resolves DefaultFormat to a reader format.
func (c *Config) Format() (fmparser.Format, error) {
	return fmparser.ParseFormat(c.DefaultFormat)
}

// DebounceDuration parses Watch.Debounce.
func (c *Config) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, fmt.Errorf("watch.debounce: %w", err)
	}
	return d, nil
}

// Validate checks every field and returns an *InvalidConfigError listing all
// problems found.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Format(); err != nil {
		errs = append(errs, fmt.Errorf("default_format: %w", err))
	}
	if err := c.Log.Level.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("ui.color_scheme: %w", err))
	}
	if c.Parser.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("parser.max_file_size: must be positive, got %d", c.Parser.MaxFileSize))
	}
	if c.Batch.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("batch.concurrency: must be at least 1, got %d", c.Batch.Concurrency))
	}
	if d, err := c.DebounceDuration(); err != nil {
		errs = append(errs, err)
	} else if d < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce: must not be negative, got %s", d))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultFormat: fmparser.FormatNone.String(),
		Log:           LogConfig{Level: LogLevelInfo},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Parser: ParserConfig{MaxFileSize: fmparser.DefaultMaxFileSize},
		Batch:  BatchConfig{Concurrency: fmparser.DefaultConcurrency},
		Watch: WatchConfig{
			Debounce: defaultDebounce,
			Ignore:   []string{},
		},
	}
}
