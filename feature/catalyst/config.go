package catalyst

// Config holds the Catalyst Center connection settings.
type Config struct {
	URL            string `mapstructure:"url" default:""`
	Username       string `mapstructure:"username" default:""`
	Password       string `mapstructure:"password" default:""`
	VerifyTLS      bool   `mapstructure:"verify_tls" default:"true"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" default:"30"`
	// Family selects the device family to import.
	Family string `mapstructure:"family" default:"Switches and Hubs"`
	// PageSize is the limit used for device list requests.
	PageSize int `mapstructure:"page_size" default:"500"`
}
