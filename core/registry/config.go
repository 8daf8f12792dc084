package registry

// Config holds the registry connection settings.
type Config struct {
	// URL is the base URL of the registry, without the /api suffix.
	URL string `mapstructure:"url" default:"http://localhost:8000"`
	// Token is the API token.
	Token string `mapstructure:"token" default:""`
	// VerifyTLS enables certificate verification.
	VerifyTLS bool `mapstructure:"verify_tls" default:"true"`
	// TimeoutSeconds bounds every request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// Manufacturer is assigned to device types created by this tool.
	Manufacturer string `mapstructure:"manufacturer" default:"Cisco"`
	// PageSize is the limit used for list requests.
	PageSize int `mapstructure:"page_size" default:"200"`
}
