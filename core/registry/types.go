package registry

// Ref is a nested object reference as returned by the registry.
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Site is a registry site.
type Site struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Location is a registry location, always inside a site.
type Location struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Site Ref    `json:"site"`
}

// DeviceType is a catalog entry.
type DeviceType struct {
	ID           int    `json:"id"`
	Model        string `json:"model"`
	Slug         string `json:"slug"`
	PartNumber   string `json:"part_number"`
	Manufacturer Ref    `json:"manufacturer"`
}

// Device is a registry device.
type Device struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Site       Ref    `json:"site"`
	PrimaryIP4 *Ref   `json:"primary_ip4"`
}

// Interface is a device interface.
type Interface struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// IPAddress is an IPAM address.
type IPAddress struct {
	ID      int    `json:"id"`
	Address string `json:"address"`
}

// SiteSpec describes a site to create.
type SiteSpec struct {
	Name     string
	Status   string
	RegionID int
	GroupID  int
	TenantID int
	TimeZone string
}

// LocationSpec describes a location to create.
type LocationSpec struct {
	Name     string
	SiteID   int
	Status   string
	TenantID int
}

// DeviceSpec describes a device to create.
type DeviceSpec struct {
	Name         string
	DeviceTypeID int
	RoleID       int
	SiteID       int
	LocationID   int
	TenantID     int
	Serial       string
	Status       string
	Comments     string
	CustomFields map[string]any
}

// InterfaceSpec describes a device interface to create.
type InterfaceSpec struct {
	DeviceID int
	Name     string
	Type     string
}

// IPSpec describes an IP address to create, assigned to an interface.
type IPSpec struct {
	Address     string
	Status      string
	Role        string
	InterfaceID int
}

// Kind names a resource that can be looked up by name with FindID.
type Kind string

const (
	KindTenant       Kind = "tenant"
	KindRegion       Kind = "region"
	KindSiteGroup    Kind = "site-group"
	KindSite         Kind = "site"
	KindManufacturer Kind = "manufacturer"
	KindDeviceRole   Kind = "device-role"
)

var kindPaths = map[Kind]string{
	KindTenant:       pathTenants,
	KindRegion:       pathRegions,
	KindSiteGroup:    pathSiteGroups,
	KindSite:         pathSites,
	KindManufacturer: pathManufacturers,
	KindDeviceRole:   pathDeviceRoles,
}

// API paths.
const (
	pathManufacturers = "/api/dcim/manufacturers/"
	pathSites         = "/api/dcim/sites/"
	pathLocations     = "/api/dcim/locations/"
	pathRegions       = "/api/dcim/regions/"
	pathSiteGroups    = "/api/dcim/site-groups/"
	pathDeviceRoles   = "/api/dcim/device-roles/"
	pathDeviceTypes   = "/api/dcim/device-types/"
	pathDevices       = "/api/dcim/devices/"
	pathInterfaces    = "/api/dcim/interfaces/"
	pathIPAddresses   = "/api/ipam/ip-addresses/"
	pathTenants       = "/api/tenancy/tenants/"
)
