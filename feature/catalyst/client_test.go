package catalyst_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"inventory-sync/feature/catalyst"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalystServer(t *testing.T, devices []catalyst.NetworkDevice) (*httptest.Server, *int) {
	t.Helper()
	logins := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/dna/system/api/v1/auth/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if r.Method != http.MethodPost || !ok || user != "admin" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		logins++
		_ = json.NewEncoder(w).Encode(map[string]string{"Token": "tok"})
	})
	mux.HandleFunc("/dna/intent/api/v1/network-device", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Auth-Token") != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		family := r.URL.Query().Get("family")

		var matched []catalyst.NetworkDevice
		for _, d := range devices {
			if family == "" || d.Family == family {
				matched = append(matched, d)
			}
		}
		start := min(offset-1, len(matched))
		end := min(start+limit, len(matched))
		_ = json.NewEncoder(w).Encode(map[string]any{"response": matched[start:end]})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &logins
}

func TestClient_Devices(t *testing.T) {
	var devices []catalyst.NetworkDevice
	for i := 1; i <= 5; i++ {
		devices = append(devices, catalyst.NetworkDevice{
			Hostname: fmt.Sprintf("sw%d", i),
			Family:   "Switches and Hubs",
		})
	}
	devices = append(devices, catalyst.NetworkDevice{Hostname: "wlc1", Family: "Wireless Controller"})

	srv, logins := newCatalystServer(t, devices)
	client, err := catalyst.NewClient(catalyst.Config{
		URL:      srv.URL,
		Username: "admin",
		Password: "secret",
		PageSize: 2,
	}, nil)
	require.NoError(t, err)

	got, err := client.Devices(context.Background(), "Switches and Hubs")
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, "sw1", got[0].Hostname)
	assert.Equal(t, "sw5", got[4].Hostname)

	_, err = client.Devices(context.Background(), "Switches and Hubs")
	require.NoError(t, err)
	assert.Equal(t, 1, *logins)
}

func TestClient_AuthFailure(t *testing.T) {
	srv, _ := newCatalystServer(t, nil)
	client, err := catalyst.NewClient(catalyst.Config{URL: srv.URL, Username: "admin", Password: "wrong"}, nil)
	require.NoError(t, err)

	_, err = client.Devices(context.Background(), "")
	var statusErr *catalyst.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := catalyst.NewClient(catalyst.Config{}, nil)
	assert.Error(t, err)
}
