package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"inventory-sync/core/reconcile"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// EnsureManufacturer returns the id of the named manufacturer, creating it
// when missing.
func (c *Client) EnsureManufacturer(ctx context.Context, name string) (int, error) {
	return c.ensureNamed(ctx, pathManufacturers, name)
}

// EnsureDeviceRole returns the id of the named device role, creating it when
// missing.
func (c *Client) EnsureDeviceRole(ctx context.Context, name string) (int, error) {
	return c.ensureNamed(ctx, pathDeviceRoles, name)
}

func (c *Client) ensureNamed(ctx context.Context, path, name string) (int, error) {
	found, ok, err := findOne[Ref](ctx, c, path, url.Values{"name": {name}})
	if err != nil {
		return 0, err
	}
	if ok {
		return found.ID, nil
	}

	id, err := c.create(ctx, path, map[string]any{"name": name, "slug": slug.Make(name)})
	if err != nil {
		return 0, fmt.Errorf("failed to create %q: %w", name, err)
	}
	c.logger.Info("Created registry object", zap.String("path", path), zap.String("name", name), zap.Int("id", id))
	return id, nil
}

// EnsureSite returns the id of the site named spec.Name, creating it when
// missing.
func (c *Client) EnsureSite(ctx context.Context, spec SiteSpec) (int, error) {
	found, ok, err := findOne[Site](ctx, c, pathSites, url.Values{"name": {spec.Name}})
	if err != nil {
		return 0, err
	}
	if ok {
		return found.ID, nil
	}

	body := map[string]any{"name": spec.Name, "slug": slug.Make(spec.Name)}
	setIf(body, "status", spec.Status)
	setIf(body, "time_zone", spec.TimeZone)
	setID(body, "region", spec.RegionID)
	setID(body, "group", spec.GroupID)
	setID(body, "tenant", spec.TenantID)

	id, err := c.create(ctx, pathSites, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create site %q: %w", spec.Name, err)
	}
	c.logger.Info("Created site", zap.String("name", spec.Name), zap.Int("id", id))
	return id, nil
}

// EnsureLocation returns the id of the location named spec.Name inside
// spec.SiteID, creating it when missing.
func (c *Client) EnsureLocation(ctx context.Context, spec LocationSpec) (int, error) {
	q := url.Values{"name": {spec.Name}, "site_id": {strconv.Itoa(spec.SiteID)}}
	found, ok, err := findOne[Location](ctx, c, pathLocations, q)
	if err != nil {
		return 0, err
	}
	if ok {
		return found.ID, nil
	}

	body := map[string]any{"name": spec.Name, "slug": slug.Make(spec.Name), "site": spec.SiteID}
	setIf(body, "status", spec.Status)
	setID(body, "tenant", spec.TenantID)

	id, err := c.create(ctx, pathLocations, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create location %q: %w", spec.Name, err)
	}
	c.logger.Info("Created location", zap.String("name", spec.Name), zap.Int("site_id", spec.SiteID), zap.Int("id", id))
	return id, nil
}

// FindLocation looks a location up by name across all sites.
func (c *Client) FindLocation(ctx context.Context, name string) (Location, bool, error) {
	return findOne[Location](ctx, c, pathLocations, url.Values{"name": {name}})
}

// EnsureDevice returns the id of the device named spec.Name in spec.SiteID,
// creating it when missing. created reports whether a new device was made.
func (c *Client) EnsureDevice(ctx context.Context, spec DeviceSpec) (id int, created bool, err error) {
	q := url.Values{"name": {spec.Name}, "site_id": {strconv.Itoa(spec.SiteID)}}
	found, ok, err := findOne[Device](ctx, c, pathDevices, q)
	if err != nil {
		return 0, false, err
	}
	if ok {
		return found.ID, false, nil
	}

	body := map[string]any{
		"name":        spec.Name,
		"device_type": spec.DeviceTypeID,
		"role":        spec.RoleID,
		"site":        spec.SiteID,
	}
	setID(body, "location", spec.LocationID)
	setID(body, "tenant", spec.TenantID)
	setIf(body, "serial", spec.Serial)
	setIf(body, "status", spec.Status)
	setIf(body, "comments", spec.Comments)
	if len(spec.CustomFields) > 0 {
		body["custom_fields"] = spec.CustomFields
	}

	id, err = c.create(ctx, pathDevices, body)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create device %q: %w", spec.Name, err)
	}
	c.logger.Info("Created device", zap.String("name", spec.Name), zap.Int("id", id))
	return id, true, nil
}

// EnsureInterface returns the id of the named interface on a device, creating
// it when missing.
func (c *Client) EnsureInterface(ctx context.Context, spec InterfaceSpec) (int, error) {
	q := url.Values{"device_id": {strconv.Itoa(spec.DeviceID)}, "name": {spec.Name}}
	found, ok, err := findOne[Interface](ctx, c, pathInterfaces, q)
	if err != nil {
		return 0, err
	}
	if ok {
		return found.ID, nil
	}

	id, err := c.create(ctx, pathInterfaces, map[string]any{
		"device":  spec.DeviceID,
		"name":    spec.Name,
		"type":    spec.Type,
		"enabled": true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create interface %q: %w", spec.Name, err)
	}
	return id, nil
}

// EnsureIPAddress returns the id of spec.Address, creating and assigning it
// when missing.
func (c *Client) EnsureIPAddress(ctx context.Context, spec IPSpec) (int, error) {
	found, ok, err := findOne[IPAddress](ctx, c, pathIPAddresses, url.Values{"address": {spec.Address}})
	if err != nil {
		return 0, err
	}
	if ok {
		return found.ID, nil
	}

	body := map[string]any{"address": spec.Address}
	setIf(body, "status", spec.Status)
	setIf(body, "role", spec.Role)
	if spec.InterfaceID > 0 {
		body["assigned_object_type"] = "dcim.interface"
		body["assigned_object_id"] = spec.InterfaceID
	}

	id, err := c.create(ctx, pathIPAddresses, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create ip address %q: %w", spec.Address, err)
	}
	return id, nil
}

// SetPrimaryIPv4 makes ipID the primary IPv4 address of a device.
func (c *Client) SetPrimaryIPv4(ctx context.Context, deviceID, ipID int) error {
	path := pathDevices + strconv.Itoa(deviceID) + "/"
	return c.do(ctx, http.MethodPatch, path, map[string]any{"primary_ip4": ipID}, nil)
}

// DeviceTypes returns the full device-type catalog.
func (c *Client) DeviceTypes(ctx context.Context) ([]DeviceType, error) {
	return list[DeviceType](ctx, c, pathDeviceTypes, nil)
}

// Catalog returns the device-type catalog as reconciliation candidates.
func (c *Client) Catalog(ctx context.Context) ([]reconcile.Candidate, error) {
	types, err := c.DeviceTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch device types: %w", err)
	}

	out := make([]reconcile.Candidate, 0, len(types))
	for _, t := range types {
		out = append(out, toCandidate(t))
	}
	return out, nil
}

// CreateDeviceType creates a device type for model under the configured
// manufacturer. An existing type with the same model is returned as is.
func (c *Client) CreateDeviceType(ctx context.Context, model string) (reconcile.Candidate, error) {
	existing, ok, err := findOne[DeviceType](ctx, c, pathDeviceTypes, url.Values{"model": {model}})
	if err != nil {
		return reconcile.Candidate{}, err
	}
	if ok {
		return toCandidate(existing), nil
	}

	manufacturerID, err := c.EnsureManufacturer(ctx, c.manufacturer)
	if err != nil {
		return reconcile.Candidate{}, err
	}

	id, err := c.create(ctx, pathDeviceTypes, map[string]any{
		"manufacturer": manufacturerID,
		"model":        model,
		"slug":         slug.Make(model),
		"part_number":  model,
	})
	if err != nil {
		return reconcile.Candidate{}, fmt.Errorf("failed to create device type %q: %w", model, err)
	}
	c.logger.Info("Created device type", zap.String("model", model), zap.Int("id", id))

	return reconcile.Candidate{ID: strconv.Itoa(id), DisplayName: model, PartNumber: model}, nil
}

// Sites returns every site.
func (c *Client) Sites(ctx context.Context) ([]Site, error) {
	return list[Site](ctx, c, pathSites, nil)
}

// Locations returns every location.
func (c *Client) Locations(ctx context.Context) ([]Location, error) {
	return list[Location](ctx, c, pathLocations, nil)
}

// FindID returns the id of the object of kind with the given name.
func (c *Client) FindID(ctx context.Context, kind Kind, name string) (int, error) {
	path, ok := kindPaths[kind]
	if !ok {
		return 0, fmt.Errorf("unknown kind %q", kind)
	}
	found, ok, err := findOne[Ref](ctx, c, path, url.Values{"name": {name}})
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	}
	return found.ID, nil
}

// DeviceNames returns the names of all devices with the given role slug. An
// empty slug returns every device.
func (c *Client) DeviceNames(ctx context.Context, roleSlug string) ([]string, error) {
	q := url.Values{}
	if roleSlug != "" {
		q.Set("role", roleSlug)
	}
	devices, err := list[Device](ctx, c, pathDevices, q)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(devices))
	for _, d := range devices {
		names = append(names, d.Name)
	}
	return names, nil
}

func toCandidate(t DeviceType) reconcile.Candidate {
	return reconcile.Candidate{ID: strconv.Itoa(t.ID), DisplayName: t.Model, PartNumber: t.PartNumber}
}

func setIf(body map[string]any, key, value string) {
	if value != "" {
		body[key] = value
	}
}

func setID(body map[string]any, key string, id int) {
	if id > 0 {
		body[key] = id
	}
}
