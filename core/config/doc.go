// Package config provides configuration management for inventory-sync.
//
// It utilizes Viper for loading configuration from environment variables,
// a .env file and an optional config.yaml.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: connection for the database mapping backend
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Registry: registry URL and token (NETBOX_URL and NETBOX_API_TOKEN are accepted too)
//   - Mapping, Reconcile: mapping store location and match tuning
//   - Wireless, Catalyst, Import: sources and import defaults
//
// Wireless controllers are a list and can only be given in config.yaml.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Registry.URL)
package config
