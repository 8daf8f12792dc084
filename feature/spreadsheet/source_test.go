package spreadsheet_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inventory-sync/feature/spreadsheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `Name,ManagementIP,DeviceType,SerialNumber,Custom_SWVer,Custom_Function,Site,Location,AreaRoom,Comments
# staged for the east wing
SW-EAST-01,10.2.0.11,C9300-48P,FOC1234X1AB,17.9.4,IDF,Campus East,Building 1,,rack 3
sw-east-02,10.2.0.12/24,C9200L-24P-4G,,,Access,Campus East,Building 2,Room 201,
,10.2.0.13,C9300-48P,,,,,,,
sw-east-03,,,,,,Campus East,,,
`

func TestParse(t *testing.T) {
	devices, err := spreadsheet.Parse(context.Background(), strings.NewReader(sample), "")
	require.NoError(t, err)
	require.Len(t, devices, 3)

	d := devices[0]
	assert.Equal(t, "sw-east-01", d.Name)
	assert.Equal(t, "C9300-48P", d.Model)
	assert.Equal(t, "10.2.0.11", d.ManagementIP)
	assert.Equal(t, "FOC1234X1AB", d.Serial)
	assert.Equal(t, "Campus East", d.SiteHint)
	assert.Equal(t, "Building 1", d.LocationHint)
	assert.Equal(t, "IDF", d.Role)
	assert.Equal(t, spreadsheet.DeviceStatus, d.Status)
	assert.Equal(t, spreadsheet.InterfaceName, d.InterfaceName)
	assert.Equal(t, spreadsheet.IPStatus, d.IPStatus)
	assert.Equal(t, "rack 3", d.Comments)
	assert.Equal(t, map[string]any{"AreaRoom": "TBD"}, d.CustomFields)
	assert.Equal(t, "17.9.4", d.Extra["sw_version"])

	assert.Equal(t, "Access", devices[1].Role)
	assert.Equal(t, map[string]any{"AreaRoom": "Room 201"}, devices[1].CustomFields)

	assert.Equal(t, "sw-east-03", devices[2].Name)
	assert.Empty(t, devices[2].Model)
}

func TestParse_RoleOverride(t *testing.T) {
	devices, err := spreadsheet.Parse(context.Background(), strings.NewReader(sample), "Access")
	require.NoError(t, err)
	for _, d := range devices {
		assert.Equal(t, "Access", d.Role)
	}
}

func TestParse_MissingColumn(t *testing.T) {
	_, err := spreadsheet.Parse(context.Background(), strings.NewReader("Name,Site\nsw1,HQ\n"), "")
	assert.ErrorIs(t, err, spreadsheet.ErrMissingColumn)
}

func TestParse_Empty(t *testing.T) {
	devices, err := spreadsheet.Parse(context.Background(), strings.NewReader(""), "")
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestSource_Devices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	src := spreadsheet.NewSource(path, "IDF")
	assert.Equal(t, spreadsheet.SourceName, src.Name())

	devices, err := src.Devices(context.Background())
	require.NoError(t, err)
	assert.Len(t, devices, 3)

	_, err = spreadsheet.NewSource(filepath.Join(t.TempDir(), "missing.csv"), "").Devices(context.Background())
	assert.Error(t, err)
}

func TestValidRole(t *testing.T) {
	assert.True(t, spreadsheet.ValidRole(""))
	assert.True(t, spreadsheet.ValidRole("IDF"))
	assert.True(t, spreadsheet.ValidRole("Access"))
	assert.False(t, spreadsheet.ValidRole("Core"))
}
