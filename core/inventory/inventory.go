// Package inventory defines the normalized device record produced by every
// source adapter.
package inventory

import (
	"context"
	"sort"
	"strings"
)

// Device is one device learned from a source.
type Device struct {
	Name          string `json:"name"`
	Model         string `json:"model"`
	ManagementIP  string `json:"management_ip"`
	Serial        string `json:"serial,omitempty"`
	SiteHint      string `json:"site,omitempty"`
	LocationHint  string `json:"location,omitempty"`
	Role          string `json:"role,omitempty"`
	Status        string `json:"status,omitempty"`
	InterfaceName string `json:"interface_name,omitempty"`
	InterfaceType string `json:"interface_type,omitempty"`
	IPStatus      string `json:"ip_status,omitempty"`
	IPRole        string `json:"ip_role,omitempty"`
	Comments      string `json:"comments,omitempty"`
	// Source names the adapter that produced the record.
	Source string `json:"source"`
	// CustomFields are copied to the registry device as they are.
	CustomFields map[string]any `json:"custom_fields,omitempty"`
	// Extra holds source-specific values that have no registry field.
	Extra map[string]string `json:"extra,omitempty"`
}

// Source produces device records.
type Source interface {
	// Name identifies the source in logs and reports.
	Name() string
	// Devices returns every device the source knows about.
	Devices(ctx context.Context) ([]Device, error)
}

// Models returns the distinct non-blank models of devices, sorted.
func Models(devices []Device) []string {
	seen := map[string]struct{}{}
	for _, d := range devices {
		if strings.TrimSpace(d.Model) == "" {
			continue
		}
		seen[d.Model] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Partition splits devices into those with a model and those without.
func Partition(devices []Device) (withModel, blank []Device) {
	for _, d := range devices {
		if strings.TrimSpace(d.Model) == "" {
			blank = append(blank, d)
			continue
		}
		withModel = append(withModel, d)
	}
	return withModel, blank
}

// HostAddress returns ip as a single-host CIDR unless it already carries a
// prefix length.
func HostAddress(ip string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" || strings.Contains(ip, "/") {
		return ip
	}
	if strings.Contains(ip, ":") {
		return ip + "/128"
	}
	return ip + "/32"
}
