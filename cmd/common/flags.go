package common

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ducminhle1904/pair-rotation-allocator/internal/logger"
)

// CommonFlags contains flags that are shared across commands
type CommonFlags struct {
	// Environment and configuration
	EnvFile  *string
	DataRoot *string

	// Logging
	LogLevel *string
	NoColors *bool

	// Help and version
	Version *bool
	Help    *bool
}

// RegisterCommonFlags registers common flags on fs. Empty defaults defer to
// the environment configuration.
func RegisterCommonFlags(fs *flag.FlagSet) *CommonFlags {
	return &CommonFlags{
		EnvFile:  fs.String("env", ".env", "Environment file path"),
		DataRoot: fs.String("data-root", "", "Data root directory (default DATA_ROOT or \"data\")"),

		LogLevel: fs.String("log-level", "", "Log level: debug, info, warn, error (default LOG_LEVEL or \"info\")"),
		NoColors: fs.Bool("no-colors", false, "Disable colored log output"),

		Version: fs.Bool("version", false, "Show version information"),
		Help:    fs.Bool("help", false, "Show help information"),
	}
}

// LoggerConfig merges the logging flags over the environment defaults
func (f *CommonFlags) LoggerConfig(envLevel string, envPretty bool) logger.Config {
	cfg := logger.Config{Level: envLevel, Pretty: envPretty}
	if *f.LogLevel != "" {
		cfg.Level = *f.LogLevel
	}
	if *f.NoColors {
		cfg.Pretty = false
	}
	return cfg
}

// FlagValidator collects flag validation errors
type FlagValidator struct {
	errors []string
}

// NewFlagValidator creates a new flag validator
func NewFlagValidator() *FlagValidator {
	return &FlagValidator{
		errors: make([]string, 0),
	}
}

// ValidateInt validates an int flag value
func (v *FlagValidator) ValidateInt(name string, value int, min, max int) *FlagValidator {
	if value < min || value > max {
		v.errors = append(v.errors, fmt.Sprintf("%s must be between %d and %d, got: %d", name, min, max, value))
	}
	return v
}

// ValidateChoice validates that a string is one of the allowed choices
func (v *FlagValidator) ValidateChoice(name, value string, choices []string) *FlagValidator {
	for _, choice := range choices {
		if value == choice {
			return v
		}
	}
	v.errors = append(v.errors, fmt.Sprintf("%s must be one of [%s], got: %s", name, strings.Join(choices, ", "), value))
	return v
}

// ValidateFile validates that a file exists
func (v *FlagValidator) ValidateFile(name, path string, required bool) *FlagValidator {
	if path == "" {
		if required {
			v.errors = append(v.errors, fmt.Sprintf("%s is required", name))
		}
		return v
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		v.errors = append(v.errors, fmt.Sprintf("%s file does not exist: %s", name, path))
	}
	return v
}

// ValidateDirectory validates that a directory exists
func (v *FlagValidator) ValidateDirectory(name, path string, required bool) *FlagValidator {
	if path == "" {
		if required {
			v.errors = append(v.errors, fmt.Sprintf("%s is required", name))
		}
		return v
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.errors = append(v.errors, fmt.Sprintf("%s directory does not exist: %s", name, path))
	} else if err == nil && !info.IsDir() {
		v.errors = append(v.errors, fmt.Sprintf("%s is not a directory: %s", name, path))
	}
	return v
}

// AddError adds a custom validation error
func (v *FlagValidator) AddError(message string) *FlagValidator {
	v.errors = append(v.errors, message)
	return v
}

// HasErrors returns true if there are validation errors
func (v *FlagValidator) HasErrors() bool {
	return len(v.errors) > 0
}

// GetError returns a formatted error message with all validation errors
func (v *FlagValidator) GetError() error {
	if len(v.errors) == 0 {
		return nil
	}

	if len(v.errors) == 1 {
		return fmt.Errorf("validation error: %s", v.errors[0])
	}

	return fmt.Errorf("validation errors:\n  - %s", strings.Join(v.errors, "\n  - "))
}

// UsageFormatter provides utilities for formatting flag usage
type UsageFormatter struct {
	AppName        string
	AppDescription string
	Examples       []UsageExample
}

// UsageExample represents a usage example
type UsageExample struct {
	Command     string
	Description string
}

// NewUsageFormatter creates a new usage formatter
func NewUsageFormatter(appName, description string) *UsageFormatter {
	return &UsageFormatter{
		AppName:        appName,
		AppDescription: description,
		Examples:       make([]UsageExample, 0),
	}
}

// AddExample adds a usage example
func (u *UsageFormatter) AddExample(command, description string) *UsageFormatter {
	u.Examples = append(u.Examples, UsageExample{
		Command:     command,
		Description: description,
	})
	return u
}

// PrintUsage prints formatted usage information followed by the flag defaults of fs
func (u *UsageFormatter) PrintUsage(out io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(out, "%s - %s\n\n", u.AppName, u.AppDescription)

	fmt.Fprintf(out, "USAGE:\n")
	fmt.Fprintf(out, "  %s [OPTIONS]\n\n", filepath.Base(os.Args[0]))

	if len(u.Examples) > 0 {
		fmt.Fprintf(out, "EXAMPLES:\n")
		for _, example := range u.Examples {
			fmt.Fprintf(out, "  # %s\n", example.Description)
			fmt.Fprintf(out, "  %s\n\n", example.Command)
		}
	}

	fmt.Fprintf(out, "OPTIONS:\n")
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// CheckHelpAndVersion handles the help and version flags and reports whether
// the command should exit
func CheckHelpAndVersion(out io.Writer, appName string, commonFlags *CommonFlags, formatter *UsageFormatter, fs *flag.FlagSet) bool {
	if *commonFlags.Version {
		PrintVersion(out, appName)
		return true
	}

	if *commonFlags.Help {
		formatter.PrintUsage(out, fs)
		return true
	}

	return false
}
