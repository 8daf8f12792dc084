// Package server holds the HTTP server configuration.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key and which mapping
// domains are exposed.
//
// # Usage
//
// This package is embedded by core/config and read by the start command.
package server
