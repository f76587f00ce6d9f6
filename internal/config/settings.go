package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Auth type constants
const (
	AuthTypeNone   = "none"
	AuthTypeBasic  = "basic"
	AuthTypeAPIKey = "apikey"
)

// AuthSettings configuration for authentication
type AuthSettings struct {
	Type    string            `mapstructure:"type"` // AuthTypeNone, AuthTypeBasic, or AuthTypeAPIKey
	Basic   BasicAuthSettings `mapstructure:"basic"`
	APIKeys []string          `mapstructure:"api_keys"`
}

// BasicAuthSettings configuration for basic auth
type BasicAuthSettings struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// PackSettings configuration for source packing and indexing
type PackSettings struct {
	Enabled     bool          `mapstructure:"enabled"`
	Roots       []string      `mapstructure:"roots"`
	BaseDir     string        `mapstructure:"base_dir"`
	MaxFileSize int64         `mapstructure:"max_file_size"`
	MaxResults  int           `mapstructure:"max_results"`
	Workers     int           `mapstructure:"workers"`
	PackTimeout time.Duration `mapstructure:"pack_timeout"`
}

// Settings application settings
type Settings struct {
	Transport string       `mapstructure:"transport"`
	Host      string       `mapstructure:"host"`
	Port      int          `mapstructure:"port"`
	Auth      AuthSettings `mapstructure:"auth"`
	Pack      PackSettings `mapstructure:"pack"`
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("transport", "stdio")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("auth.type", AuthTypeNone)

	// Pack defaults
	v.SetDefault("pack.enabled", false)
	v.SetDefault("pack.base_dir", defaultPackBaseDir())
	v.SetDefault("pack.max_file_size", int64(256*1024)) // 256KB
	v.SetDefault("pack.max_results", 20)
	v.SetDefault("pack.workers", 4)
	v.SetDefault("pack.pack_timeout", 60*time.Second)

	// Environment variables
	v.SetEnvPrefix("LINEPACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific env vars for nested config
	_ = v.BindEnv("auth.type", "LINEPACK_AUTH_TYPE")
	_ = v.BindEnv("auth.basic.username", "LINEPACK_AUTH_BASIC_USERNAME")
	_ = v.BindEnv("auth.basic.password", "LINEPACK_AUTH_BASIC_PASSWORD")
	_ = v.BindEnv("auth.api_keys", "LINEPACK_AUTH_API_KEYS")

	// Pack env var bindings
	_ = v.BindEnv("pack.enabled", "LINEPACK_PACK_ENABLED")
	_ = v.BindEnv("pack.roots", "LINEPACK_PACK_ROOTS")
	_ = v.BindEnv("pack.base_dir", "LINEPACK_PACK_BASE_DIR")
	_ = v.BindEnv("pack.max_file_size", "LINEPACK_PACK_MAX_FILE_SIZE")
	_ = v.BindEnv("pack.max_results", "LINEPACK_PACK_MAX_RESULTS")
	_ = v.BindEnv("pack.workers", "LINEPACK_PACK_WORKERS")
	_ = v.BindEnv("pack.pack_timeout", "LINEPACK_PACK_TIMEOUT")

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		_ = v.BindPFlag("transport", flags.Lookup("transport"))
		_ = v.BindPFlag("host", flags.Lookup("host"))
		_ = v.BindPFlag("port", flags.Lookup("port"))
		_ = v.BindPFlag("auth.type", flags.Lookup("auth-type"))
		_ = v.BindPFlag("auth.basic.username", flags.Lookup("auth-basic-username"))
		_ = v.BindPFlag("auth.basic.password", flags.Lookup("auth-basic-password"))
		_ = v.BindPFlag("auth.api_keys", flags.Lookup("auth-api-keys"))

		// Pack CLI flags
		_ = v.BindPFlag("pack.enabled", flags.Lookup("pack-enabled"))
		_ = v.BindPFlag("pack.roots", flags.Lookup("pack-roots"))
		_ = v.BindPFlag("pack.base_dir", flags.Lookup("pack-base-dir"))
		_ = v.BindPFlag("pack.max_file_size", flags.Lookup("pack-max-file-size"))
		_ = v.BindPFlag("pack.max_results", flags.Lookup("pack-max-results"))
		_ = v.BindPFlag("pack.workers", flags.Lookup("pack-workers"))
		_ = v.BindPFlag("pack.pack_timeout", flags.Lookup("pack-timeout"))
	}

	// Helper to look for .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	// Handle explicit parsing of API keys if provided via env var as comma-separated string
	apiKeysEnv := os.Getenv("LINEPACK_AUTH_API_KEYS")
	if apiKeysEnv != "" {
		if len(settings.Auth.APIKeys) == 0 || (len(settings.Auth.APIKeys) == 1 && strings.Contains(settings.Auth.APIKeys[0], ",")) {
			settings.Auth.APIKeys = strings.Split(apiKeysEnv, ",")
		}
	}

	// Trim spaces from API keys
	for i := range settings.Auth.APIKeys {
		settings.Auth.APIKeys[i] = strings.TrimSpace(settings.Auth.APIKeys[i])
	}

	// Handle explicit parsing of pack roots if provided via env var as comma-separated string
	rootsEnv := os.Getenv("LINEPACK_PACK_ROOTS")
	if rootsEnv != "" {
		if len(settings.Pack.Roots) == 0 || (len(settings.Pack.Roots) == 1 && strings.Contains(settings.Pack.Roots[0], ",")) {
			settings.Pack.Roots = strings.Split(rootsEnv, ",")
		}
	}

	// Trim spaces, drop empties, and expand home dirs in roots
	for i := range settings.Pack.Roots {
		settings.Pack.Roots[i] = expandHomeDir(strings.TrimSpace(settings.Pack.Roots[i]))
	}
	settings.Pack.Roots = filterEmptyStrings(settings.Pack.Roots)

	// Expand home directory in base_dir
	settings.Pack.BaseDir = expandHomeDir(settings.Pack.BaseDir)

	return &settings, nil
}

// defaultPackBaseDir returns the default base directory for pack storage
func defaultPackBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".linepack"
	}
	return filepath.Join(home, ".linepack")
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// filterEmptyStrings removes empty strings from a slice
func filterEmptyStrings(s []string) []string {
	var result []string
	for _, str := range s {
		if str != "" {
			result = append(result, str)
		}
	}
	return result
}

// ValidateSettings checks for conflicting configurations.
// Returns an error if the settings contain mutually exclusive or incomplete auth config.
func ValidateSettings(s *Settings) error {
	// Validate transport type
	switch s.Transport {
	case "stdio", "sse":
		// valid
	default:
		return errors.New("transport must be 'stdio' or 'sse', got: " + s.Transport)
	}

	hasBasicCreds := s.Auth.Basic.Username != "" || s.Auth.Basic.Password != ""
	hasAPIKeys := len(s.Auth.APIKeys) > 0

	switch s.Auth.Type {
	case AuthTypeNone, "":
		if hasBasicCreds || hasAPIKeys {
			return errors.New("auth-type 'none' is incompatible with auth credentials")
		}
	case AuthTypeBasic:
		if hasAPIKeys {
			return errors.New("auth-type 'basic' is mutually exclusive with auth-api-keys")
		}
		if s.Auth.Basic.Username == "" || s.Auth.Basic.Password == "" {
			return errors.New("auth-type 'basic' requires both username and password")
		}
	case AuthTypeAPIKey:
		if hasBasicCreds {
			return errors.New("auth-type 'apikey' is mutually exclusive with basic auth credentials")
		}
		if !hasAPIKeys {
			return errors.New("auth-type 'apikey' requires at least one API key")
		}
	default:
		return errors.New("unknown auth-type: " + s.Auth.Type)
	}

	// Validate pack settings
	if err := validatePackSettings(&s.Pack); err != nil {
		return err
	}

	return nil
}

// validatePackSettings validates the pack configuration
func validatePackSettings(p *PackSettings) error {
	if !p.Enabled {
		return nil // No validation needed when disabled
	}

	if len(p.Roots) == 0 {
		return errors.New("pack-enabled requires at least one source root (pack-roots)")
	}

	if p.MaxFileSize <= 0 {
		return errors.New("pack-max-file-size must be positive")
	}

	if p.MaxResults <= 0 {
		return errors.New("pack-max-results must be positive")
	}

	if p.Workers <= 0 {
		return errors.New("pack-workers must be positive")
	}

	if p.PackTimeout <= 0 {
		return errors.New("pack-timeout must be positive")
	}

	if p.BaseDir == "" {
		return errors.New("pack-base-dir cannot be empty")
	}

	return nil
}
