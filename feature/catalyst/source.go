package catalyst

import (
	"context"
	"strings"

	"inventory-sync/core/inventory"

	"go.uber.org/zap"
)

// SourceName identifies devices read from Catalyst Center.
const SourceName = "catalyst"

// Defaults applied to every device.
const (
	DeviceStatus  = "active"
	InterfaceName = "Management"
	InterfaceType = "virtual"
	IPStatus      = "reserved"
	IPRole        = "vip"
)

// DeviceLister lists devices of a family.
type DeviceLister interface {
	Devices(ctx context.Context, family string) ([]NetworkDevice, error)
}

// Source adapts Catalyst Center devices to inventory devices.
type Source struct {
	client DeviceLister
	family string
	logger *zap.Logger
}

// NewSource creates a Source.
func NewSource(client DeviceLister, family string, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{client: client, family: family, logger: logger}
}

// Name implements inventory.Source.
func (s *Source) Name() string { return SourceName }

// Devices implements inventory.Source.
func (s *Source) Devices(ctx context.Context) ([]inventory.Device, error) {
	listed, err := s.client.Devices(ctx, s.family)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Listed Catalyst Center devices", zap.String("family", s.family), zap.Int("count", len(listed)))

	devices := make([]inventory.Device, 0, len(listed))
	for _, d := range listed {
		devices = append(devices, toDevice(d))
	}
	return devices, nil
}

func toDevice(d NetworkDevice) inventory.Device {
	location := d.LocationName
	if location == "" {
		location = d.SNMPLocation
	}

	extra := map[string]string{}
	if d.SoftwareVersion != "" {
		extra["sw_version"] = d.SoftwareVersion
	}
	if d.Series != "" {
		extra["series"] = d.Series
	}
	if d.ID != "" {
		extra["catalyst_id"] = d.ID
	}

	return inventory.Device{
		Name:          d.Hostname,
		Model:         first(d.PlatformID),
		ManagementIP:  d.ManagementIPAddress,
		Serial:        first(d.SerialNumber),
		LocationHint:  strings.TrimSpace(location),
		Role:          d.Role,
		Status:        DeviceStatus,
		InterfaceName: InterfaceName,
		InterfaceType: InterfaceType,
		IPStatus:      IPStatus,
		IPRole:        IPRole,
		Source:        SourceName,
		Extra:         extra,
	}
}

// first returns the first entry of a comma separated stack list.
func first(v string) string {
	head, _, _ := strings.Cut(v, ",")
	return strings.TrimSpace(head)
}
