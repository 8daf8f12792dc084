package spreadsheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"inventory-sync/core/inventory"
)

// SourceName identifies devices read from a spreadsheet.
const SourceName = "csv"

// Column names.
const (
	ColName         = "Name"
	ColManagementIP = "ManagementIP"
	ColDeviceType   = "DeviceType"
	ColSerialNumber = "SerialNumber"
	ColSWVersion    = "Custom_SWVer"
	ColFunction     = "Custom_Function"
	ColSite         = "Site"
	ColLocation     = "Location"
	ColAreaRoom     = "AreaRoom"
	ColComments     = "Comments"
)

// Defaults applied to every row.
const (
	DefaultAreaRoom = "TBD"
	DeviceStatus    = "inventory"
	InterfaceName   = "Management"
	InterfaceType   = "virtual"
	IPStatus        = "reserved"
)

// Roles accepted by the --role override.
var Roles = []string{"IDF", "Access"}

// ErrMissingColumn is returned when a required column is absent.
var ErrMissingColumn = errors.New("missing required column")

// Source reads devices from a CSV file.
type Source struct {
	path string
	role string
}

// NewSource creates a Source for path. A non-empty role overrides the
// Custom_Function column.
func NewSource(path, role string) *Source {
	return &Source{path: path, role: role}
}

// Name implements inventory.Source.
func (s *Source) Name() string { return SourceName }

// Devices implements inventory.Source.
func (s *Source) Devices(ctx context.Context) ([]inventory.Device, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory file: %w", err)
	}
	defer f.Close()

	return Parse(ctx, f, s.role)
}

// Parse reads devices from r.
func Parse(ctx context.Context, r io.Reader, role string) ([]inventory.Device, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, required := range []string{ColName, ColDeviceType} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	var devices []inventory.Device
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return devices, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		get := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		name := strings.ToLower(get(ColName))
		if name == "" {
			continue
		}

		deviceRole := role
		if deviceRole == "" {
			deviceRole = get(ColFunction)
		}
		areaRoom := get(ColAreaRoom)
		if areaRoom == "" {
			areaRoom = DefaultAreaRoom
		}

		d := inventory.Device{
			Name:          name,
			Model:         get(ColDeviceType),
			ManagementIP:  get(ColManagementIP),
			Serial:        get(ColSerialNumber),
			SiteHint:      get(ColSite),
			LocationHint:  get(ColLocation),
			Role:          deviceRole,
			Status:        DeviceStatus,
			InterfaceName: InterfaceName,
			InterfaceType: InterfaceType,
			IPStatus:      IPStatus,
			Comments:      get(ColComments),
			Source:        SourceName,
			CustomFields:  map[string]any{"AreaRoom": areaRoom},
		}
		if v := get(ColSWVersion); v != "" {
			d.Extra = map[string]string{"sw_version": v}
		}
		devices = append(devices, d)
	}
}

// ValidRole reports whether role is empty or one of Roles.
func ValidRole(role string) bool {
	if role == "" {
		return true
	}
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
