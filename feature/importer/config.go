package importer

// Config holds the defaults applied to objects created by an import.
type Config struct {
	// Tenant, Region and SiteGroup name existing registry objects. Empty
	// values leave the field unset.
	Tenant    string `mapstructure:"tenant" default:""`
	Region    string `mapstructure:"region" default:""`
	SiteGroup string `mapstructure:"site_group" default:""`
	TimeZone  string `mapstructure:"time_zone" default:""`
	// SiteStatus and LocationStatus are used for new sites and locations.
	SiteStatus     string `mapstructure:"site_status" default:"planned"`
	LocationStatus string `mapstructure:"location_status" default:"planned"`
	// DefaultRole is used for devices whose source gives no role.
	DefaultRole string `mapstructure:"default_role" default:"Network Device"`
	// SkipRegistered drops devices already registered under their role.
	SkipRegistered bool `mapstructure:"skip_registered" default:"true"`
}
