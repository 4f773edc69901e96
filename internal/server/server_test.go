package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const house = `{
  "building": {
    "foundation": {"id": "f", "center": [0, 0], "height": 0, "rotation": 0},
    "walls": [
      {"id": "south", "start": [0, 0], "end": [10, 0], "height": 3,
       "doors": [{"id": "door", "offset": 5, "bottom": 0, "width": 1, "height": 2}]},
      {"id": "east", "start": [10, 0], "end": [10, 6], "height": 3},
      {"id": "north", "start": [10, 6], "end": [0, 6], "height": 3},
      {"id": "west", "start": [0, 6], "end": [0, 0], "height": 3}
    ],
    "roofs": [{"id": "roof", "kind": "hip", "rise": 2, "ridgeLength": 4}]
  },
  "environment": {
    "site": {"latitude": 42.36, "longitude": -71.06, "elevation": 10},
    "time": "2024-06-21T16:00:00Z",
    "airMass": "kasten-young",
    "solarRadiationHeatmapGridCellSize": 1
  }
}`

func post(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/energy", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestEnergy(t *testing.T) {
	srv := httptest.NewServer(New(2, nil).Router())
	defer srv.Close()

	resp := post(t, srv, house)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got EnergyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Greater(t, got.Total, 0.0)
	assert.True(t, got.Sun.Up)
	assert.Equal(t, 173, got.Sun.DayOfYear)
	assert.Len(t, got.Result.Walls, 4)
	assert.Len(t, got.Result.Doors, 1)
	require.Len(t, got.Result.Roofs["roof"], 4)
	assert.Equal(t, "roof-2", got.Result.Roofs["roof"][2].SurfaceID)
}

func TestEnergyErrors(t *testing.T) {
	srv := httptest.NewServer(New(1, nil).Router())
	defer srv.Close()

	resp := post(t, srv, "{")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, srv, `{"building": {"walls": []}, "environment": {"time": "2024-06-21T16:00:00Z"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = post(t, srv, strings.Replace(house, `"latitude": 42.36`, `"latitude": 420`, 1))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = post(t, srv, strings.Replace(house, `"building"`, `"buildings"`, 1))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err := http.Get(srv.URL + "/api/energy")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := httptest.NewServer(New(1, nil).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Read the whole response so the handler has finished.
	_, err = io.Copy(io.Discard, post(t, srv, house).Body)
	require.NoError(t, err)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{route="healthz",status="200"} 1`)
	assert.Contains(t, string(body), `http_requests_total{route="energy",status="200"} 1`)
	assert.Contains(t, string(body), "solargrid_surfaces_total 9")
}
