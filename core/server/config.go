package server

import (
	"strconv"
	"strings"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Domains lists the mapping stores served over HTTP.
	Domains string `mapstructure:"domains" default:"wireless,generic"`
}

// IsValidPort reports whether Port is a usable TCP port number.
func (c Config) IsValidPort() bool {
	n, err := strconv.Atoi(c.Port)
	return err == nil && n > 0 && n < 65536
}

// ServedDomains returns the non-empty entries of Domains.
func (c Config) ServedDomains() []string {
	var out []string
	for _, d := range strings.Split(c.Domains, ",") {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}
