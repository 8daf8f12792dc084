package importer_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"inventory-sync/core/inventory"
	"inventory-sync/core/mapping"
	"inventory-sync/core/reconcile"
	"inventory-sync/core/registry"
	"inventory-sync/core/registry/registrytest"
	"inventory-sync/feature/importer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	devices []inventory.Device
	err     error
}

func (s *staticSource) Name() string { return "test" }

func (s *staticSource) Devices(context.Context) ([]inventory.Device, error) {
	return s.devices, s.err
}

type fakePrompter struct {
	site    string
	confirm bool
	asked   []string
	sites   []string
}

func (f *fakePrompter) ChooseSite(_ context.Context, location string, sites []string) (string, error) {
	f.asked = append(f.asked, location)
	f.sites = sites
	return f.site, nil
}

func (f *fakePrompter) Confirm(context.Context, string) (bool, error) {
	return f.confirm, nil
}

type fixture struct {
	srv          *registrytest.Server
	client       *registry.Client
	rec          *reconcile.Reconciler
	catalogCalls int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	srv := registrytest.NewServer()
	t.Cleanup(srv.Close)

	client, err := registry.New(registry.Config{URL: srv.URL, Token: registrytest.Token, VerifyTLS: true}, nil)
	require.NoError(t, err)

	mfr := srv.Seed("dcim/manufacturers", map[string]any{"name": "Cisco", "slug": "cisco"})
	srv.Seed("dcim/device-types", map[string]any{"model": "C9130AXI-B", "part_number": "C9130AXI-B", "slug": "c9130axi-b", "manufacturer": mfr})
	srv.Seed("dcim/device-types", map[string]any{"model": "C9120AXI-B", "part_number": "C9120AXI-B", "slug": "c9120axi-b", "manufacturer": mfr})
	hq := srv.Seed("dcim/sites", map[string]any{"name": "HQ", "slug": "hq"})
	srv.Seed("dcim/locations", map[string]any{"name": "HQ-Floor1", "slug": "hq-floor1", "site": hq})
	role := srv.Seed("dcim/device-roles", map[string]any{"name": "Wireless Access Point", "slug": "wireless-access-point"})
	srv.Seed("dcim/devices", map[string]any{"name": "ap-existing", "role": role, "site": hq})

	store := mapping.NewStore(mapping.NewFileBackend(filepath.Join(t.TempDir(), "wlc2nb_mapping.json")))
	rec := reconcile.New(store, reconcile.Options{Creator: client})

	return &fixture{srv: srv, client: client, rec: rec}
}

func (f *fixture) orchestrator(cfg importer.Config, p importer.Prompter) *importer.Orchestrator {
	catalog := func(ctx context.Context) ([]reconcile.Candidate, error) {
		f.catalogCalls++
		return f.client.Catalog(ctx)
	}
	return importer.New(f.client, f.rec, catalog, importer.Options{Config: cfg, Prompter: p})
}

func defaultConfig() importer.Config {
	return importer.Config{
		SiteStatus:     "planned",
		LocationStatus: "planned",
		DefaultRole:    "Network Device",
		SkipRegistered: true,
	}
}

func accessPoint(name, model, location, ip string) inventory.Device {
	return inventory.Device{
		Name:          name,
		Model:         model,
		ManagementIP:  ip,
		LocationHint:  location,
		Role:          "Wireless Access Point",
		Status:        "active",
		InterfaceName: "GigabitEthernet0",
		InterfaceType: "1000base-t",
		IPStatus:      "dhcp",
		IPRole:        "vip",
		CustomFields:  map[string]any{"SiteTag": location},
	}
}

func sampleSource() *staticSource {
	return &staticSource{devices: []inventory.Device{
		accessPoint("ap-existing", "C9130AXI-B", "HQ-Floor1", "10.1.1.10"),
		accessPoint("ap-new-1", "C9130AXI-B", "HQ-Floor1", "10.1.1.20"),
		accessPoint("ap-new-2", "C9130AXI-B", "HQ-Floor9", ""),
		accessPoint("ap-blank", " ", "HQ-Floor1", "10.1.1.30"),
	}}
}

func TestPlan(t *testing.T) {
	f := newFixture(t)
	prompter := &fakePrompter{site: "Annex"}

	plan, err := f.orchestrator(defaultConfig(), prompter).Plan(context.Background(), sampleSource())
	require.NoError(t, err)

	require.Len(t, plan.Devices, 2)
	assert.Equal(t, "ap-new-1", plan.Devices[0].Device.Name)
	assert.Equal(t, "HQ", plan.Devices[0].Site)
	assert.Equal(t, "C9130AXI-B", plan.Devices[0].DeviceType)
	assert.Equal(t, "Annex", plan.Devices[1].Site)

	assert.ElementsMatch(t, []importer.Skipped{
		{Name: "ap-blank", Reason: importer.ReasonNoModel},
		{Name: "ap-existing", Reason: importer.ReasonRegistered},
	}, plan.Skipped)

	assert.Equal(t, []string{"Annex"}, plan.NewSites)
	assert.Equal(t, []importer.PlannedLocation{{Name: "HQ-Floor9", Site: "Annex"}}, plan.NewLocations)
	assert.Equal(t, []string{"Wireless Access Point"}, plan.Roles)
	assert.Equal(t, []string{"HQ-Floor9"}, prompter.asked)
	assert.Equal(t, []string{"HQ"}, prompter.sites)

	entry, ok := f.rec.Store().Lookup("C9130AXI-B")
	require.True(t, ok)
	assert.Equal(t, "C9130AXI-B", entry.CanonicalName)

	_, err = f.orchestrator(defaultConfig(), prompter).Plan(context.Background(), sampleSource())
	require.NoError(t, err)
	assert.Equal(t, 1, f.catalogCalls, "cached models must not refetch the catalog")
}

func TestPlan_NoSiteWithoutPrompter(t *testing.T) {
	f := newFixture(t)

	plan, err := f.orchestrator(defaultConfig(), nil).Plan(context.Background(), sampleSource())
	require.NoError(t, err)

	require.Len(t, plan.Devices, 1)
	assert.Contains(t, plan.Skipped, importer.Skipped{Name: "ap-new-2", Reason: importer.ReasonNoSite})
}

func TestPlan_LocationUnderSecondSite(t *testing.T) {
	f := newFixture(t)
	annex := f.srv.Seed("dcim/sites", map[string]any{"name": "Annex", "slug": "annex"})
	f.srv.Seed("dcim/locations", map[string]any{"name": "HQ-Floor1", "slug": "hq-floor1", "site": annex})

	d := accessPoint("ap-annex", "C9130AXI-B", "HQ-Floor1", "")
	d.SiteHint = "Annex"
	other := accessPoint("ap-hq", "C9130AXI-B", "HQ-Floor1", "")

	plan, err := f.orchestrator(defaultConfig(), nil).Plan(context.Background(), &staticSource{devices: []inventory.Device{d, other}})
	require.NoError(t, err)

	require.Len(t, plan.Devices, 2)
	assert.Equal(t, "Annex", plan.Devices[0].Site)
	assert.Equal(t, "HQ", plan.Devices[1].Site)
	assert.Empty(t, plan.NewLocations)
	assert.Empty(t, plan.NewSites)
}

func TestPlan_SourceError(t *testing.T) {
	f := newFixture(t)
	_, err := f.orchestrator(defaultConfig(), nil).Plan(context.Background(), &staticSource{err: errors.New("unreachable")})
	assert.ErrorContains(t, err, "unreachable")
}

func TestPlan_DecisionRequired(t *testing.T) {
	f := newFixture(t)
	src := &staticSource{devices: []inventory.Device{accessPoint("ap-odd", "AIR-CAP3702I", "HQ-Floor1", "")}}

	_, err := f.orchestrator(defaultConfig(), nil).Plan(context.Background(), src)
	assert.ErrorIs(t, err, reconcile.ErrDecisionRequired)
	assert.Zero(t, f.rec.Store().Len())
}

func TestRun_Apply(t *testing.T) {
	f := newFixture(t)
	var out bytes.Buffer

	catalog := func(ctx context.Context) ([]reconcile.Candidate, error) { return f.client.Catalog(ctx) }
	o := importer.New(f.client, f.rec, catalog, importer.Options{
		Config:   defaultConfig(),
		Prompter: &fakePrompter{site: "Annex"},
		Out:      &out,
	})

	report, err := o.Run(context.Background(), sampleSource(), importer.RunOptions{AssumeYes: true})
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.DevicesCreated)
	assert.Equal(t, 0, report.DevicesExisting)
	assert.Equal(t, 1, report.IPAddresses)
	assert.Len(t, report.Skipped, 2)
	assert.Contains(t, out.String(), "ap-new-1")

	assert.Len(t, f.srv.Objects("dcim/devices"), 3)
	assert.Len(t, f.srv.Objects("dcim/sites"), 2)
	assert.Len(t, f.srv.Objects("dcim/locations"), 2)
	assert.Len(t, f.srv.Objects("dcim/interfaces"), 1)

	ips := f.srv.Objects("ipam/ip-addresses")
	require.Len(t, ips, 1)
	assert.Equal(t, "10.1.1.20/32", ips[0]["address"])
	assert.Equal(t, "dhcp", ips[0]["status"])
	assert.Equal(t, "vip", ips[0]["role"])

	patches := f.srv.Requests("PATCH", "dcim/devices")
	require.Len(t, patches, 1)
	assert.NotNil(t, patches[0].Body["primary_ip4"])

	sites := f.srv.Requests("POST", "dcim/sites")
	require.Len(t, sites, 1)
	assert.Equal(t, "Annex", sites[0].Body["name"])
	assert.Equal(t, "planned", sites[0].Body["status"])

	devices := f.srv.Requests("POST", "dcim/devices")
	require.Len(t, devices, 2)
	assert.Equal(t, map[string]any{"SiteTag": "HQ-Floor1"}, devices[0].Body["custom_fields"])
}

func TestRun_AddressWithoutInterface(t *testing.T) {
	f := newFixture(t)
	d := accessPoint("ap-noif", "C9130AXI-B", "HQ-Floor1", "10.1.1.40")
	d.InterfaceName = ""

	report, err := f.orchestrator(defaultConfig(), nil).Run(context.Background(), &staticSource{devices: []inventory.Device{d}}, importer.RunOptions{AssumeYes: true})
	require.NoError(t, err)

	assert.Equal(t, 1, report.DevicesCreated)
	assert.Zero(t, report.IPAddresses)
	assert.Empty(t, f.srv.Objects("ipam/ip-addresses"))
}

func TestRun_Rerun(t *testing.T) {
	f := newFixture(t)
	cfg := defaultConfig()
	cfg.SkipRegistered = false
	src := &staticSource{devices: []inventory.Device{accessPoint("ap-new-1", "C9130AXI-B", "HQ-Floor1", "10.1.1.20")}}

	_, err := f.orchestrator(cfg, nil).Run(context.Background(), src, importer.RunOptions{AssumeYes: true})
	require.NoError(t, err)

	report, err := f.orchestrator(cfg, nil).Run(context.Background(), src, importer.RunOptions{AssumeYes: true})
	require.NoError(t, err)
	assert.Equal(t, 0, report.DevicesCreated)
	assert.Equal(t, 1, report.DevicesExisting)
	assert.Len(t, f.srv.Objects("ipam/ip-addresses"), 1)
}

func TestRun_Confirmation(t *testing.T) {
	t.Run("Declined", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.orchestrator(defaultConfig(), &fakePrompter{site: "Annex"}).
			Run(context.Background(), sampleSource(), importer.RunOptions{})
		assert.ErrorIs(t, err, importer.ErrAborted)
		assert.Empty(t, f.srv.Requests("POST", "dcim/devices"))
	})

	t.Run("NoPrompter", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.orchestrator(defaultConfig(), nil).
			Run(context.Background(), sampleSource(), importer.RunOptions{})
		assert.ErrorIs(t, err, importer.ErrConfirmationRequired)
	})

	t.Run("DryRun", func(t *testing.T) {
		f := newFixture(t)
		report, err := f.orchestrator(defaultConfig(), &fakePrompter{site: "Annex", confirm: true}).
			Run(context.Background(), sampleSource(), importer.RunOptions{DryRun: true})
		require.NoError(t, err)
		assert.True(t, report.DryRun)
		assert.Empty(t, f.srv.Requests("POST", "dcim/devices"))
	})

	t.Run("Confirmed", func(t *testing.T) {
		f := newFixture(t)
		report, err := f.orchestrator(defaultConfig(), &fakePrompter{site: "Annex", confirm: true}).
			Run(context.Background(), sampleSource(), importer.RunOptions{})
		require.NoError(t, err)
		assert.Equal(t, 2, report.DevicesCreated)
	})
}

func TestApply_Defaults(t *testing.T) {
	f := newFixture(t)
	tenant := f.srv.Seed("tenancy/tenants", map[string]any{"name": "Campus", "slug": "campus"})

	cfg := defaultConfig()
	cfg.Tenant = "Campus"
	cfg.TimeZone = "America/Chicago"

	_, err := f.orchestrator(cfg, &fakePrompter{site: "Annex"}).
		Run(context.Background(), sampleSource(), importer.RunOptions{AssumeYes: true})
	require.NoError(t, err)

	sites := f.srv.Requests("POST", "dcim/sites")
	require.Len(t, sites, 1)
	assert.EqualValues(t, tenant, sites[0].Body["tenant"])
	assert.Equal(t, "America/Chicago", sites[0].Body["time_zone"])

}

func TestApply_UnknownDefault(t *testing.T) {
	f := newFixture(t)
	cfg := defaultConfig()
	cfg.Region = "Nowhere"

	_, err := f.orchestrator(cfg, &fakePrompter{site: "Annex"}).
		Run(context.Background(), sampleSource(), importer.RunOptions{AssumeYes: true})
	assert.ErrorIs(t, err, registry.ErrNotFound)
	assert.Empty(t, f.srv.Requests("POST", "dcim/devices"))
}

func TestApply_RegistryFailure(t *testing.T) {
	f := newFixture(t)
	f.srv.FailPOST["dcim/devices"] = true

	_, err := f.orchestrator(defaultConfig(), &fakePrompter{site: "Annex"}).
		Run(context.Background(), sampleSource(), importer.RunOptions{AssumeYes: true})

	var apiErr *registry.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.ErrorContains(t, err, "ap-new-1")
}
