package importer

import (
	"fmt"
	"io"
	"sort"

	"inventory-sync/core/inventory"
	"inventory-sync/core/mapping"

	"github.com/charmbracelet/lipgloss"
)

// Skip reasons.
const (
	ReasonNoModel    = "no device model"
	ReasonRegistered = "already registered"
	ReasonNoSite     = "no site"
)

// Skipped is a device left out of an import.
type Skipped struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// PlannedDevice is a device with its resolved placement and device type.
type PlannedDevice struct {
	Device       inventory.Device `json:"device"`
	Site         string           `json:"site"`
	Location     string           `json:"location,omitempty"`
	DeviceTypeID int              `json:"device_type_id"`
	DeviceType   string           `json:"device_type"`
}

// PlannedLocation is a location to create.
type PlannedLocation struct {
	Name string `json:"name"`
	Site string `json:"site"`
}

// Plan is the outcome of the planning step.
type Plan struct {
	Source       string            `json:"source"`
	Devices      []PlannedDevice   `json:"devices"`
	Skipped      []Skipped         `json:"skipped"`
	NewSites     []string          `json:"new_sites"`
	NewLocations []PlannedLocation `json:"new_locations"`
	Roles        []string          `json:"roles"`
	Mappings     []mapping.Entry   `json:"mappings"`
}

// Empty reports whether the plan creates nothing.
func (p *Plan) Empty() bool {
	return len(p.Devices) == 0
}

// Summary returns a one-line description.
func (p *Plan) Summary() string {
	return fmt.Sprintf("%d devices, %d new sites, %d new locations, %d skipped",
		len(p.Devices), len(p.NewSites), len(p.NewLocations), len(p.Skipped))
}

// Render writes a human readable version of the plan.
func (p *Plan) Render(w io.Writer) {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	muted := r.NewStyle().Foreground(lipgloss.Color("8"))
	warn := r.NewStyle().Foreground(lipgloss.Color("11"))

	fmt.Fprintln(w, title.Render(fmt.Sprintf("Import plan (%s): %s", p.Source, p.Summary())))

	if len(p.NewSites) > 0 {
		fmt.Fprintln(w, title.Render("New sites"))
		for _, s := range p.NewSites {
			fmt.Fprintf(w, "  %s\n", s)
		}
	}
	if len(p.NewLocations) > 0 {
		fmt.Fprintln(w, title.Render("New locations"))
		for _, l := range p.NewLocations {
			fmt.Fprintf(w, "  %s %s\n", l.Name, muted.Render("(site "+l.Site+")"))
		}
	}
	if len(p.Devices) > 0 {
		fmt.Fprintln(w, title.Render("Devices"))
		for _, d := range p.Devices {
			place := d.Site
			if d.Location != "" {
				place += " / " + d.Location
			}
			fmt.Fprintf(w, "  %-24s %-20s %s\n", d.Device.Name, d.DeviceType, muted.Render(place))
		}
	}
	if len(p.Skipped) > 0 {
		fmt.Fprintln(w, warn.Render("Skipped"))
		for _, s := range p.Skipped {
			fmt.Fprintf(w, "  %-24s %s\n", s.Name, muted.Render(s.Reason))
		}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
