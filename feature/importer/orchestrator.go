package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"inventory-sync/core/inventory"
	"inventory-sync/core/mapping"
	"inventory-sync/core/reconcile"
	"inventory-sync/core/registry"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

var (
	// ErrAborted is returned when the operator declines the plan.
	ErrAborted = errors.New("import aborted")
	// ErrConfirmationRequired is returned when a plan needs confirmation and
	// there is no one to ask.
	ErrConfirmationRequired = errors.New("confirmation required: rerun with --yes")
)

// Registry is the part of the registry client an import uses.
type Registry interface {
	Sites(ctx context.Context) ([]registry.Site, error)
	Locations(ctx context.Context) ([]registry.Location, error)
	DeviceNames(ctx context.Context, roleSlug string) ([]string, error)
	FindID(ctx context.Context, kind registry.Kind, name string) (int, error)
	EnsureSite(ctx context.Context, spec registry.SiteSpec) (int, error)
	EnsureLocation(ctx context.Context, spec registry.LocationSpec) (int, error)
	EnsureDeviceRole(ctx context.Context, name string) (int, error)
	EnsureDevice(ctx context.Context, spec registry.DeviceSpec) (int, bool, error)
	EnsureInterface(ctx context.Context, spec registry.InterfaceSpec) (int, error)
	EnsureIPAddress(ctx context.Context, spec registry.IPSpec) (int, error)
	SetPrimaryIPv4(ctx context.Context, deviceID, ipID int) error
}

// Options configures an Orchestrator.
type Options struct {
	Config Config
	// Prompter answers site and confirmation questions. Nil runs
	// non-interactively.
	Prompter Prompter
	Logger   *zap.Logger
	// Out receives the rendered plan. Nil discards it.
	Out io.Writer
}

// RunOptions controls a single Run.
type RunOptions struct {
	// DryRun stops after planning.
	DryRun bool
	// AssumeYes skips the confirmation.
	AssumeYes bool
}

// Report is the outcome of an import.
type Report struct {
	RunID            string    `json:"run_id"`
	Source           string    `json:"source"`
	DryRun           bool      `json:"dry_run"`
	DevicesCreated   int       `json:"devices_created"`
	DevicesExisting  int       `json:"devices_existing"`
	SitesEnsured     int       `json:"sites_ensured"`
	LocationsEnsured int       `json:"locations_ensured"`
	IPAddresses      int       `json:"ip_addresses"`
	Skipped          []Skipped `json:"skipped"`
}

// Orchestrator runs imports.
type Orchestrator struct {
	reg      Registry
	rec      *reconcile.Reconciler
	catalog  reconcile.CatalogLoader
	cfg      Config
	prompter Prompter
	logger   *zap.Logger
	out      io.Writer
}

// New creates an Orchestrator. catalog is only called when some model has
// no mapping entry yet.
func New(reg Registry, rec *reconcile.Reconciler, catalog reconcile.CatalogLoader, opts Options) *Orchestrator {
	o := &Orchestrator{
		reg:      reg,
		rec:      rec,
		catalog:  catalog,
		cfg:      opts.Config,
		prompter: opts.Prompter,
		logger:   opts.Logger,
		out:      opts.Out,
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.out == nil {
		o.out = io.Discard
	}
	return o
}

// Run plans, confirms and applies an import from src.
func (o *Orchestrator) Run(ctx context.Context, src inventory.Source, opts RunOptions) (*Report, error) {
	plan, err := o.Plan(ctx, src)
	if err != nil {
		return nil, err
	}
	plan.Render(o.out)

	if opts.DryRun || plan.Empty() {
		return &Report{RunID: uuid.NewString(), Source: plan.Source, DryRun: opts.DryRun, Skipped: plan.Skipped}, nil
	}

	if !opts.AssumeYes {
		if o.prompter == nil {
			return nil, ErrConfirmationRequired
		}
		ok, err := o.prompter.Confirm(ctx, fmt.Sprintf("Import %s?", plan.Summary()))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAborted
		}
	}

	return o.Apply(ctx, plan)
}

// Plan reads src and works out what an import would create. New mapping
// entries are persisted; nothing is written to the registry.
func (o *Orchestrator) Plan(ctx context.Context, src inventory.Source) (*Plan, error) {
	devices, err := src.Devices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s devices: %w", src.Name(), err)
	}
	o.logger.Info("Read devices", zap.String("source", src.Name()), zap.Int("count", len(devices)))

	plan := &Plan{Source: src.Name()}

	withModel, blank := inventory.Partition(devices)
	for _, d := range blank {
		o.logger.Warn("Skipping device without model", zap.String("device", d.Name))
		plan.Skipped = append(plan.Skipped, Skipped{Name: d.Name, Reason: ReasonNoModel})
	}

	for i := range withModel {
		if withModel[i].Role == "" {
			withModel[i].Role = o.cfg.DefaultRole
		}
	}

	candidates, err := o.dropRegistered(ctx, withModel, plan)
	if err != nil {
		return nil, err
	}

	types, err := o.resolveTypes(ctx, candidates)
	if err != nil {
		return nil, err
	}
	plan.Mappings = types

	if err := o.place(ctx, candidates, types, plan); err != nil {
		return nil, err
	}

	roles := map[string]struct{}{}
	for _, d := range plan.Devices {
		roles[d.Device.Role] = struct{}{}
	}
	plan.Roles = sortedKeys(roles)
	return plan, nil
}

func (o *Orchestrator) dropRegistered(ctx context.Context, devices []inventory.Device, plan *Plan) ([]inventory.Device, error) {
	if !o.cfg.SkipRegistered {
		return devices, nil
	}

	registered := map[string]map[string]struct{}{}
	kept := devices[:0:0]
	for _, d := range devices {
		roleSlug := slug.Make(d.Role)
		names, ok := registered[roleSlug]
		if !ok {
			list, err := o.reg.DeviceNames(ctx, roleSlug)
			if err != nil {
				return nil, fmt.Errorf("failed to list %s devices: %w", d.Role, err)
			}
			names = make(map[string]struct{}, len(list))
			for _, n := range list {
				names[n] = struct{}{}
			}
			registered[roleSlug] = names
		}

		if _, ok := names[d.Name]; ok {
			plan.Skipped = append(plan.Skipped, Skipped{Name: d.Name, Reason: ReasonRegistered})
			continue
		}
		kept = append(kept, d)
	}
	return kept, nil
}

func (o *Orchestrator) resolveTypes(ctx context.Context, devices []inventory.Device) ([]mapping.Entry, error) {
	models := inventory.Models(devices)
	if len(models) == 0 {
		return nil, nil
	}

	missing, err := o.rec.Missing(ctx, models)
	if err != nil {
		return nil, err
	}

	var catalog []reconcile.Candidate
	if len(missing) > 0 {
		o.logger.Info("Models without mapping", zap.Strings("models", missing))
		catalog, err = o.catalog(ctx)
		if err != nil {
			return nil, err
		}
	}
	return o.rec.Reconcile(ctx, models, catalog)
}

func (o *Orchestrator) place(ctx context.Context, devices []inventory.Device, types []mapping.Entry, plan *Plan) error {
	byModel := make(map[string]mapping.Entry, len(types))
	for _, e := range types {
		byModel[e.ObservedModel] = e
	}

	sites, err := o.reg.Sites(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sites: %w", err)
	}
	known := map[string]struct{}{}
	for _, s := range sites {
		known[s.Name] = struct{}{}
	}

	locations, err := o.reg.Locations(ctx)
	if err != nil {
		return fmt.Errorf("failed to list locations: %w", err)
	}
	// A location name may exist under several sites. Without a site hint
	// the first one is used.
	locationSite := map[string]string{}
	existing := map[PlannedLocation]struct{}{}
	for _, l := range locations {
		existing[PlannedLocation{Name: l.Name, Site: l.Site.Name}] = struct{}{}
		if _, dup := locationSite[l.Name]; !dup {
			locationSite[l.Name] = l.Site.Name
		}
	}

	newSites := map[string]struct{}{}
	newLocations := map[PlannedLocation]struct{}{}
	chosen := map[string]string{}

	for _, d := range devices {
		site, location := d.SiteHint, d.LocationHint

		if location != "" && site == "" {
			if s, ok := locationSite[location]; ok {
				site = s
			} else if s, ok := chosen[location]; ok {
				site = s
			} else if o.prompter != nil {
				s, err := o.prompter.ChooseSite(ctx, location, siteNames(known, newSites))
				if err != nil {
					return err
				}
				site = strings.TrimSpace(s)
				chosen[location] = site
			}
		}

		if site == "" {
			o.logger.Warn("Skipping device without site", zap.String("device", d.Name), zap.String("location", location))
			plan.Skipped = append(plan.Skipped, Skipped{Name: d.Name, Reason: ReasonNoSite})
			continue
		}

		if _, ok := known[site]; !ok {
			newSites[site] = struct{}{}
		}
		if location != "" {
			pl := PlannedLocation{Name: location, Site: site}
			if _, ok := existing[pl]; !ok {
				newLocations[pl] = struct{}{}
			}
		}

		entry := byModel[d.Model]
		typeID, err := strconv.Atoi(entry.CanonicalID)
		if err != nil {
			return fmt.Errorf("device %s: mapping for %q has invalid device type id %q", d.Name, d.Model, entry.CanonicalID)
		}

		plan.Devices = append(plan.Devices, PlannedDevice{
			Device:       d,
			Site:         site,
			Location:     location,
			DeviceTypeID: typeID,
			DeviceType:   entry.CanonicalName,
		})
	}

	plan.NewSites = sortedKeys(newSites)
	for l := range newLocations {
		plan.NewLocations = append(plan.NewLocations, l)
	}
	sort.Slice(plan.NewLocations, func(i, j int) bool {
		a, b := plan.NewLocations[i], plan.NewLocations[j]
		if a.Site != b.Site {
			return a.Site < b.Site
		}
		return a.Name < b.Name
	})
	return nil
}

func siteNames(known, planned map[string]struct{}) []string {
	all := map[string]struct{}{}
	for k := range known {
		all[k] = struct{}{}
	}
	for k := range planned {
		all[k] = struct{}{}
	}
	return sortedKeys(all)
}

// Apply writes plan to the registry. The first failure stops the import.
func (o *Orchestrator) Apply(ctx context.Context, plan *Plan) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), Source: plan.Source, Skipped: plan.Skipped}
	l := o.logger.With(zap.String("run_id", report.RunID))

	tenantID, regionID, groupID, err := o.defaults(ctx)
	if err != nil {
		return nil, err
	}

	siteIDs := map[string]int{}
	ensureSite := func(name string) (int, error) {
		if id, ok := siteIDs[name]; ok {
			return id, nil
		}
		id, err := o.reg.EnsureSite(ctx, registry.SiteSpec{
			Name:     name,
			Status:   o.cfg.SiteStatus,
			RegionID: regionID,
			GroupID:  groupID,
			TenantID: tenantID,
			TimeZone: o.cfg.TimeZone,
		})
		if err != nil {
			return 0, err
		}
		siteIDs[name] = id
		report.SitesEnsured++
		return id, nil
	}

	locationIDs := map[PlannedLocation]int{}
	roleIDs := map[string]int{}

	for _, pd := range plan.Devices {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		d := pd.Device

		siteID, err := ensureSite(pd.Site)
		if err != nil {
			return report, fmt.Errorf("device %s: %w", d.Name, err)
		}

		var locationID int
		if pd.Location != "" {
			key := PlannedLocation{Name: pd.Location, Site: pd.Site}
			if id, ok := locationIDs[key]; ok {
				locationID = id
			} else {
				locationID, err = o.reg.EnsureLocation(ctx, registry.LocationSpec{
					Name:     pd.Location,
					SiteID:   siteID,
					Status:   o.cfg.LocationStatus,
					TenantID: tenantID,
				})
				if err != nil {
					return report, fmt.Errorf("device %s: %w", d.Name, err)
				}
				locationIDs[key] = locationID
				report.LocationsEnsured++
			}
		}

		roleID, ok := roleIDs[d.Role]
		if !ok {
			roleID, err = o.reg.EnsureDeviceRole(ctx, d.Role)
			if err != nil {
				return report, fmt.Errorf("device %s: %w", d.Name, err)
			}
			roleIDs[d.Role] = roleID
		}

		deviceID, created, err := o.reg.EnsureDevice(ctx, registry.DeviceSpec{
			Name:         d.Name,
			DeviceTypeID: pd.DeviceTypeID,
			RoleID:       roleID,
			SiteID:       siteID,
			LocationID:   locationID,
			TenantID:     tenantID,
			Serial:       d.Serial,
			Status:       d.Status,
			Comments:     d.Comments,
			CustomFields: d.CustomFields,
		})
		if err != nil {
			return report, fmt.Errorf("device %s: %w", d.Name, err)
		}
		if created {
			report.DevicesCreated++
		} else {
			report.DevicesExisting++
		}

		attached, err := o.attachAddress(ctx, deviceID, d)
		if err != nil {
			return report, fmt.Errorf("device %s: %w", d.Name, err)
		}
		if attached {
			report.IPAddresses++
		}
		l.Debug("Imported device", zap.String("device", d.Name), zap.Int("id", deviceID), zap.Bool("created", created))
	}

	l.Info("Import finished",
		zap.String("source", plan.Source),
		zap.Int("created", report.DevicesCreated),
		zap.Int("existing", report.DevicesExisting),
		zap.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

// attachAddress creates the management interface and address of d and
// reports whether an address was attached.
func (o *Orchestrator) attachAddress(ctx context.Context, deviceID int, d inventory.Device) (bool, error) {
	if d.ManagementIP == "" || d.InterfaceName == "" {
		return false, nil
	}

	ifaceID, err := o.reg.EnsureInterface(ctx, registry.InterfaceSpec{
		DeviceID: deviceID,
		Name:     d.InterfaceName,
		Type:     d.InterfaceType,
	})
	if err != nil {
		return false, err
	}

	address := inventory.HostAddress(d.ManagementIP)
	ipID, err := o.reg.EnsureIPAddress(ctx, registry.IPSpec{
		Address:     address,
		Status:      d.IPStatus,
		Role:        d.IPRole,
		InterfaceID: ifaceID,
	})
	if err != nil {
		return false, err
	}

	if strings.Contains(address, ":") {
		return true, nil
	}
	if err := o.reg.SetPrimaryIPv4(ctx, deviceID, ipID); err != nil {
		return false, err
	}
	return true, nil
}

func (o *Orchestrator) defaults(ctx context.Context) (tenantID, regionID, groupID int, err error) {
	lookup := func(kind registry.Kind, name string) (int, error) {
		if name == "" {
			return 0, nil
		}
		return o.reg.FindID(ctx, kind, name)
	}

	if tenantID, err = lookup(registry.KindTenant, o.cfg.Tenant); err != nil {
		return 0, 0, 0, err
	}
	if regionID, err = lookup(registry.KindRegion, o.cfg.Region); err != nil {
		return 0, 0, 0, err
	}
	if groupID, err = lookup(registry.KindSiteGroup, o.cfg.SiteGroup); err != nil {
		return 0, 0, 0, err
	}
	return tenantID, regionID, groupID, nil
}
