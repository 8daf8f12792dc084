package mapping_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"inventory-sync/core/mapping"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend_RoundTrip(t *testing.T) {
	entries := []mapping.Entry{
		{ObservedModel: "C9120AXI-B", CanonicalName: "AIR-AP9120AXI-B", CanonicalID: "12"},
		{ObservedModel: "9130AXI", CanonicalName: "AIR-AP9130AXI-B", CanonicalID: "14"},
	}

	for _, name := range []string{"wlc2nb_mapping.json", "mapping.yaml", "mapping.yml"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "nested", name)

			store := mapping.NewStore(mapping.NewFileBackend(path))
			_, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, store.Len())

			require.NoError(t, store.AppendAndPersist(ctx, entries))

			reopened := mapping.NewStore(mapping.NewFileBackend(path))
			loaded, err := reopened.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, entries, loaded)
		})
	}
}

func TestFileBackend_MissingFileIsEmpty(t *testing.T) {
	backend := mapping.NewFileBackend(filepath.Join(t.TempDir(), "absent.json"))
	entries, err := backend.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileBackend_CorruptFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"observed_model": "A"`), 0o644))
	_, err := mapping.NewFileBackend(jsonPath).Load(context.Background())
	assert.Error(t, err)

	yamlPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("observed_model: [unterminated"), 0o644))
	_, err = mapping.NewFileBackend(yamlPath).Load(context.Background())
	assert.Error(t, err)
}

func TestFileBackend_LegacyFormat(t *testing.T) {
	// Two arrays appended by consecutive runs, with the old key names.
	legacy := `[
    {"wlc_model": "C9120AXI-B", "nb_model": "AIR-AP9120AXI-B", "nb_dt_id": 12}
][
    {"imported_model": "WS-C3850-48P", "nb_model": "WS-C3850-48P-S", "nb_dt_id": "31"},
    {"wlc_model": "C9120AXI-B", "nb_model": "C9120AXI-B", "nb_dt_id": 13}
]
`
	path := filepath.Join(t.TempDir(), "wlc2nb_mapping.json")
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	store := mapping.NewStore(mapping.NewFileBackend(path))
	entries, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []mapping.Entry{
		{ObservedModel: "C9120AXI-B", CanonicalName: "C9120AXI-B", CanonicalID: "13"},
		{ObservedModel: "WS-C3850-48P", CanonicalName: "WS-C3850-48P-S", CanonicalID: "31"},
	}, entries)
}
