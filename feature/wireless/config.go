package wireless

import "fmt"

// DefaultPort is the NETCONF over SSH port.
const DefaultPort = 830

// Controller is one wireless LAN controller.
type Controller struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	// Site is the registry site access points of this controller belong to.
	Site string `mapstructure:"site" yaml:"site"`
}

// Address returns host:port.
func (c Controller) Address() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("%s:%d", c.Host, port)
}

// Config holds the controller list and shared credentials.
type Config struct {
	// Host, Name and Site describe a single controller configured through
	// the environment. Controllers from config.yaml are added to it.
	Host string `mapstructure:"host" default:""`
	Name string `mapstructure:"name" default:""`
	Site string `mapstructure:"site" default:""`
	Port int    `mapstructure:"port" default:"830"`
	// Username and Password are used for controllers without their own.
	Username       string       `mapstructure:"username" default:""`
	Password       string       `mapstructure:"password" default:""`
	TimeoutSeconds int          `mapstructure:"timeout_seconds" default:"30"`
	Role           string       `mapstructure:"role" default:"Wireless Access Point"`
	Controllers    []Controller `mapstructure:"controllers"`
}

// AllControllers returns every configured controller with shared defaults
// applied.
func (c Config) AllControllers() []Controller {
	var out []Controller
	if c.Host != "" {
		out = append(out, Controller{Name: c.Name, Host: c.Host, Port: c.Port, Site: c.Site})
	}
	out = append(out, c.Controllers...)

	for i := range out {
		if out[i].Name == "" {
			out[i].Name = out[i].Host
		}
		if out[i].Port == 0 {
			out[i].Port = c.Port
		}
		if out[i].Username == "" {
			out[i].Username = c.Username
		}
		if out[i].Password == "" {
			out[i].Password = c.Password
		}
	}
	return out
}
