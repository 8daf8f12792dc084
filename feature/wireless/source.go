package wireless

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inventory-sync/core/inventory"

	"github.com/Juniper/go-netconf/netconf"
	"go.uber.org/zap"
)

// SourceName identifies devices read from controllers.
const SourceName = "wireless"

// Defaults applied to every access point.
const (
	InterfaceName = "GigabitEthernet0"
	InterfaceType = "1000base-t"
	DeviceStatus  = "active"
	IPStatus      = "dhcp"
	IPRole        = "vip"
)

// Source reads access points from every configured controller.
type Source struct {
	cfg    Config
	dial   Dialer
	logger *zap.Logger
}

// NewSource creates a Source. A nil dial uses NETCONF over SSH.
func NewSource(cfg Config, dial Dialer, logger *zap.Logger) *Source {
	if dial == nil {
		dial = SSHDialer(time.Duration(cfg.TimeoutSeconds) * time.Second)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{cfg: cfg, dial: dial, logger: logger}
}

// Name implements inventory.Source.
func (s *Source) Name() string { return SourceName }

// Devices implements inventory.Source.
func (s *Source) Devices(ctx context.Context) ([]inventory.Device, error) {
	controllers := s.cfg.AllControllers()
	if len(controllers) == 0 {
		return nil, fmt.Errorf("no wireless controllers configured")
	}

	var devices []inventory.Device
	for _, c := range controllers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		aps, err := s.poll(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("controller %s: %w", c.Name, err)
		}
		s.logger.Info("Polled controller",
			zap.String("controller", c.Name),
			zap.Int("access_points", len(aps)),
		)

		for _, ap := range aps {
			devices = append(devices, s.device(c, ap))
		}
	}
	return devices, nil
}

func (s *Source) poll(ctx context.Context, c Controller) ([]AccessPoint, error) {
	session, err := s.dial(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.Address(), err)
	}
	defer session.Close()

	reply, err := session.Exec(netconf.RawMethod(capwapFilter))
	if err != nil {
		return nil, fmt.Errorf("capwap get failed: %w", err)
	}
	return ParseCapwap(strings.NewReader(reply.Data))
}

func (s *Source) device(c Controller, ap AccessPoint) inventory.Device {
	extra := map[string]string{}
	for k, v := range map[string]string{
		"sw_version":  ap.SWVersion,
		"mac":         ap.MAC,
		"enet_mac":    ap.EnetMAC,
		"ap_location": ap.Location,
		"policy_tag":  ap.PolicyTag,
		"rf_tag":      ap.RFTag,
	} {
		if v != "" {
			extra[k] = v
		}
	}

	return inventory.Device{
		Name:          ap.Name,
		Model:         ap.Model,
		ManagementIP:  ap.IPAddr,
		Serial:        ap.Serial,
		SiteHint:      c.Site,
		LocationHint:  ap.SiteTag,
		Role:          s.cfg.Role,
		Status:        DeviceStatus,
		InterfaceName: InterfaceName,
		InterfaceType: InterfaceType,
		IPStatus:      IPStatus,
		IPRole:        IPRole,
		Source:        SourceName,
		CustomFields: map[string]any{
			"SiteTag": ap.SiteTag,
			"WLC":     c.Name,
		},
		Extra: extra,
	}
}
