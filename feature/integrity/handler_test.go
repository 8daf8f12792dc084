package integrity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"inventory-sync/core/mapping"
	"inventory-sync/core/reconcile"
	"inventory-sync/core/storage/mocks"
	"inventory-sync/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testCatalog = []reconcile.Candidate{
	{ID: "10", DisplayName: "C9130AXI-B", PartNumber: "C9130AXI-B"},
	{ID: "12", DisplayName: "C9120AXI-E", PartNumber: "C9120AXI-E"},
}

func staticCatalog(context.Context) ([]reconcile.Candidate, error) {
	return testCatalog, nil
}

func newStores(t *testing.T) map[mapping.Domain]*mapping.Store {
	t.Helper()
	dir := t.TempDir()

	wireless := mapping.NewStore(mapping.NewFileBackend(filepath.Join(dir, "wlc2nb_mapping.json")))
	require.NoError(t, wireless.Replace(context.Background(), []mapping.Entry{
		{ObservedModel: "AIR-AP9130AXI-B", CanonicalName: "C9130AXI-B", CanonicalID: "10"},
		{ObservedModel: "C9120AXI", CanonicalName: "C9120AXI-B", CanonicalID: "12"},
		{ObservedModel: "AIR-CAP3702I", CanonicalName: "AIR-CAP3702I-B", CanonicalID: "99"},
	}))
	generic := mapping.NewStore(mapping.NewFileBackend(filepath.Join(dir, "dt2nb_mapping.json")))

	return map[mapping.Domain]*mapping.Store{
		mapping.DomainWireless: wireless,
		mapping.DomainGeneric:  generic,
	}
}

func setupTestApp(t *testing.T, catalog reconcile.CatalogLoader, client *mocks.Client) (*fiber.App, *Service) {
	t.Helper()
	app := fiber.New()
	svc := NewService(newStores(t), catalog, nil, "inventory-sync", nil, zap.NewNop())
	if client != nil {
		svc.client = client
	}
	NewHandler(svc).RegisterRoutes(app)
	return app, svc
}

func TestHandleMappingCheck(t *testing.T) {
	app, _ := setupTestApp(t, staticCatalog, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/mappings/wireless", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var report checks.MappingReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.False(t, report.Matched)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Valid)
	assert.Len(t, report.Stale, 1)
	assert.Len(t, report.Renamed, 1)

	resp, err = app.Test(httptest.NewRequest("GET", "/integrity/mappings/generic", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.True(t, report.Matched)

	resp, err = app.Test(httptest.NewRequest("GET", "/integrity/mappings/cameras", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleMappingCheck_CatalogError(t *testing.T) {
	failing := func(context.Context) ([]reconcile.Candidate, error) { return nil, errors.New("registry down") }
	app, _ := setupTestApp(t, failing, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/mappings/wireless", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestHandleIntegrityCheck(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "inventory-sync").Return(true, nil)
	app, _ := setupTestApp(t, staticCatalog, client)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	mappings, ok := body["mappings"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, mappings, "wireless")
	assert.Contains(t, mappings, "generic")

	bucket, ok := body["bucket"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, bucket["exists"])
	assert.NotContains(t, body, "schema")
	client.AssertExpectations(t)
}

func TestHandleSchemaCheck_NoDatabase(t *testing.T) {
	app, _ := setupTestApp(t, staticCatalog, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/schema", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestRepairMappings(t *testing.T) {
	_, svc := setupTestApp(t, staticCatalog, nil)
	ctx := context.Background()

	report, err := svc.RepairMappings(ctx, "wireless")
	require.NoError(t, err)
	assert.False(t, report.Matched)

	after, err := svc.CheckMappings(ctx, "wireless")
	require.NoError(t, err)
	assert.True(t, after.Matched)
	assert.Equal(t, 2, after.Total)

	e, ok := svc.stores[mapping.DomainWireless].Lookup("C9120AXI")
	require.True(t, ok)
	assert.Equal(t, "C9120AXI-E", e.CanonicalName)

	_, err = svc.RepairMappings(ctx, "cameras")
	assert.ErrorIs(t, err, ErrUnknownDomain)
}
