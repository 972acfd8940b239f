package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/reanahub/reana-client/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyManifestPath = "manifest_path"
	KeySchemaPath   = "schema_path"
	KeyLogLevel     = "log_level"
	KeyTopLevel     = "toplevel"
)

// Settings holds the resolved configuration handed to the loaders.
type Settings struct {
	// ManifestPath is the analysis manifest location.
	ManifestPath string
	// SchemaPath is the manifest schema on disk. Empty selects the schema
	// shipped with the client.
	SchemaPath string
	LogLevel   string
	// TopLevel is the base directory for relative workflow references.
	TopLevel string
}

// Dir returns the path to the config directory (~/.reana/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.reana/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from .env, the config file, and the
// environment, in increasing order of precedence.
func Load() {
	// A missing .env is normal; real environment variables are used as-is.
	_ = godotenv.Load()

	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyManifestPath, ".reana.yaml")
	viper.SetDefault(KeySchemaPath, "")
	viper.SetDefault(KeyLogLevel, "warn")
	viper.SetDefault(KeyTopLevel, ".")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current returns the settings resolved by Load.
func Current() Settings {
	return Settings{
		ManifestPath: viper.GetString(KeyManifestPath),
		SchemaPath:   viper.GetString(KeySchemaPath),
		LogLevel:     viper.GetString(KeyLogLevel),
		TopLevel:     viper.GetString(KeyTopLevel),
	}
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
