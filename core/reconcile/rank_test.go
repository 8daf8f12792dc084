package reconcile_test

import (
	"testing"

	"inventory-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	ranked := reconcile.Rank("9130AXI", catalog, reconcile.FieldDisplayName)
	require.Len(t, ranked, len(catalog))
	assert.Equal(t, "11", ranked[0].ID)
	assert.Equal(t, 100, ranked[0].Score)
	assert.True(t, reconcile.IsExact(ranked[0]))

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestRank_TiesKeepCatalogOrder(t *testing.T) {
	ranked := reconcile.Rank("###", catalog, reconcile.FieldPartNumber)
	ids := make([]string, 0, len(ranked))
	for _, s := range ranked {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"10", "11", "12", "13"}, ids)
}

func TestRank_EmptyFieldScoresZero(t *testing.T) {
	ranked := reconcile.Rank("ISR4331", catalog, reconcile.FieldPartNumber)
	for _, s := range ranked {
		if s.ID == "13" {
			assert.Equal(t, 0, s.Score)
		}
	}
}

func TestRank_Deterministic(t *testing.T) {
	a := reconcile.Rank("C3850", catalog, reconcile.FieldPartNumber)
	b := reconcile.Rank("C3850", catalog, reconcile.FieldPartNumber)
	assert.Equal(t, a, b)
}
