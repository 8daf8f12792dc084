package config

import (
	"errors"
	"reflect"
	"strings"

	"inventory-sync/core/database"
	"inventory-sync/core/logger"
	"inventory-sync/core/mapping"
	"inventory-sync/core/reconcile"
	"inventory-sync/core/registry"
	"inventory-sync/core/server"
	"inventory-sync/core/storage"
	"inventory-sync/feature/catalyst"
	"inventory-sync/feature/importer"
	"inventory-sync/feature/wireless"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Registry holds the infrastructure registry connection.
	Registry registry.Config `mapstructure:"registry"`
	// Mapping selects where mapping stores live.
	Mapping mapping.Config `mapstructure:"mapping"`
	// Reconcile tunes model matching.
	Reconcile reconcile.Config `mapstructure:"reconcile"`
	// Wireless lists the wireless LAN controllers.
	Wireless wireless.Config `mapstructure:"wireless"`
	// Catalyst holds the Catalyst Center connection.
	Catalyst catalyst.Config `mapstructure:"catalyst"`
	// Import holds defaults for created registry objects.
	Import importer.Config `mapstructure:"import"`
}

// envAliases are environment variables accepted in addition to the
// SECTION_KEY form.
var envAliases = map[string][]string{
	"registry.url":   {"NETBOX_URL"},
	"registry.token": {"NETBOX_API_TOKEN"},
}

// LoadConfig loads configuration from environment variables, a .env file and
// an optional config.yaml, all looked up in path.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, aliases := range envAliases {
		envs := append([]string{strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, err
		}
	}

	// 2. List-valued settings (wireless controllers) come from config.yaml
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		switch field.Type.Kind() {
		case reflect.Struct:
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		case reflect.Slice, reflect.Map:
			// Only settable from config.yaml
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
