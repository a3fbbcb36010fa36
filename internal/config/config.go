package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Overlay rendering defaults
	DefaultFallbackFontSize = 9.0  // used when size inference finds no signal
	DefaultMinFontSize      = 4.0  // plausibility lower bound, points
	DefaultMaxFontSize      = 72.0 // plausibility upper bound, points
	DefaultBaselineOffset   = 5.0  // points below the requested y
	DefaultOutputSuffix     = "_filled"

	// Calibration defaults
	DefaultGridSpacing = 50.0 // points between grid lines
	DefaultPreviewDPI  = 96.0

	// Picking geometry: the logical page size click coordinates map to,
	// and the largest preview the picker displays.
	DefaultTargetWidth      = 600.0
	DefaultTargetHeight     = 850.0
	DefaultMaxDisplayWidth  = 1200.0
	DefaultMaxDisplayHeight = 800.0
)

// Config holds all configuration for the overlay pipeline and its surfaces
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Document configuration
	PDFDirectory string
	MaxFileSize  int64 // Maximum source document size in bytes

	// Overlay rendering
	FallbackFontSize float64
	MinFontSize      float64
	MaxFontSize      float64
	BaselineOffset   float64
	OutputSuffix     string

	// Calibration aids
	GridSpacing float64
	PreviewDPI  float64

	// Picking geometry
	TargetWidth      float64
	TargetHeight     float64
	MaxDisplayWidth  float64
	MaxDisplayHeight float64

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:             ModeStdio, // Default to stdio mode for MCP compatibility
		Host:             DefaultHost,
		Port:             DefaultPort,
		PDFDirectory:     currentDir,
		MaxFileSize:      DefaultMaxFileSize,
		FallbackFontSize: DefaultFallbackFontSize,
		MinFontSize:      DefaultMinFontSize,
		MaxFontSize:      DefaultMaxFontSize,
		BaselineOffset:   DefaultBaselineOffset,
		OutputSuffix:     DefaultOutputSuffix,
		GridSpacing:      DefaultGridSpacing,
		PreviewDPI:       DefaultPreviewDPI,
		TargetWidth:      DefaultTargetWidth,
		TargetHeight:     DefaultTargetHeight,
		MaxDisplayWidth:  DefaultMaxDisplayWidth,
		MaxDisplayHeight: DefaultMaxDisplayHeight,
		Version:          "1.0.0",
		ServerName:       "pdffill",
		LogLevel:         DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("PDFFILL")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.PDFDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("fallbacksize", cfg.FallbackFontSize)
	viper.SetDefault("suffix", cfg.OutputSuffix)
	viper.SetDefault("spacing", cfg.GridSpacing)
	viper.SetDefault("dpi", cfg.PreviewDPI)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Host address for HTTP server mode")
	pflag.Int("port", cfg.Port, "Port number for HTTP server mode")
	pflag.String("dir", cfg.PDFDirectory, "Directory containing PDF documents")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum source document size in bytes")
	pflag.Float64("fallbacksize", cfg.FallbackFontSize, "Text size in points used when inference finds no signal")
	pflag.String("suffix", cfg.OutputSuffix, "Suffix appended to derived output file names")
	pflag.Float64("spacing", cfg.GridSpacing, "Calibration grid spacing in points")
	pflag.Float64("dpi", cfg.PreviewDPI, "Preview image resolution in dots per inch")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("fallbacksize", pflag.Lookup("fallbacksize"))
	_ = viper.BindPFlag("suffix", pflag.Lookup("suffix"))
	_ = viper.BindPFlag("spacing", pflag.Lookup("spacing"))
	_ = viper.BindPFlag("dpi", pflag.Lookup("dpi"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\npdffill - overlays typed responses onto PDF forms without form fields\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                         "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/pdfs                     "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --dir=/path/to/pdfs       # server mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --fallbacksize=10 --suffix=_done        # tuned overlay defaults\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PDFFILL_MODE         Server mode\n")
		fmt.Fprintf(os.Stderr, "  PDFFILL_HOST         Server host\n")
		fmt.Fprintf(os.Stderr, "  PDFFILL_PORT         Server port\n")
		fmt.Fprintf(os.Stderr, "  PDFFILL_DIR          PDF directory\n")
		fmt.Fprintf(os.Stderr, "  PDFFILL_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  PDFFILL_MAXFILESIZE  Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  PDFFILL_FALLBACKSIZE Fallback text size\n")
		fmt.Fprintf(os.Stderr, "  PDFFILL_SUFFIX       Output name suffix\n")
		fmt.Fprintf(os.Stderr, "  PDFFILL_SPACING      Grid spacing\n")
		fmt.Fprintf(os.Stderr, "  PDFFILL_DPI          Preview resolution\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.PDFDirectory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.FallbackFontSize = viper.GetFloat64("fallbacksize")
	cfg.OutputSuffix = viper.GetString("suffix")
	cfg.GridSpacing = viper.GetFloat64("spacing")
	cfg.PreviewDPI = viper.GetFloat64("dpi")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.Mode == ModeServer {
		if c.Port <= 0 || c.Port > 65535 {
			return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", c.Port)
		}
		if c.Host == "" {
			return errors.New("host cannot be empty in server mode")
		}
	}

	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.MinFontSize <= 0 || c.MinFontSize >= c.MaxFontSize {
		return errors.New("font size bounds must satisfy 0 < min < max")
	}

	if c.FallbackFontSize < c.MinFontSize || c.FallbackFontSize > c.MaxFontSize {
		return fmt.Errorf("fallback font size %.1f outside plausible range [%.1f, %.1f]",
			c.FallbackFontSize, c.MinFontSize, c.MaxFontSize)
	}

	if c.OutputSuffix == "" {
		return errors.New("output suffix cannot be empty")
	}

	if c.GridSpacing <= 0 {
		return errors.New("grid spacing must be positive")
	}

	if c.PreviewDPI <= 0 {
		return errors.New("preview DPI must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the listen address for HTTP server mode
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, PDFDirectory: %s, LogLevel: %s, "+
		"MaxFileSize: %d, FallbackFontSize: %.1f, OutputSuffix: %s, GridSpacing: %.1f, PreviewDPI: %.1f}",
		c.Mode, c.Host, c.Port, c.PDFDirectory, c.LogLevel,
		c.MaxFileSize, c.FallbackFontSize, c.OutputSuffix, c.GridSpacing, c.PreviewDPI)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
