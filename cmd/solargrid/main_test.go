package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aclements/solargrid/building"
	"github.com/aclements/solargrid/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInputs() *inputs {
	return &inputs{
		buildingPath: "../../testdata/house.yaml",
		envPath:      "../../testdata/env.yaml",
		workers:      2,
	}
}

func TestRunGrid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runGrid(context.Background(), testInputs(), false, &buf))
	out := buf.String()
	for _, id := range []string{"south", "east", "north", "west", "front-door", "roof-0", "roof-1", "total"} {
		assert.Contains(t, out, id)
	}
}

func TestRunGridJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runGrid(context.Background(), testInputs(), true, &buf))
	var res building.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	assert.Len(t, res.Walls, 4)
	assert.Len(t, res.Roofs["roof"], 2)
	assert.NotNil(t, find(&res, "roof-1"))
	assert.NotNil(t, find(&res, "front-door"))
	assert.Nil(t, find(&res, "chimney"))
}

func TestRunHeatmap(t *testing.T) {
	out := filepath.Join(t.TempDir(), "south.png")
	require.NoError(t, runHeatmap(context.Background(), testInputs(), "south", out))
	err := runHeatmap(context.Background(), testInputs(), "chimney", out)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "chimney"))
}

func TestLoadErrors(t *testing.T) {
	in := testInputs()
	in.buildingPath = "missing.yaml"
	_, err := load(in)
	assert.Error(t, err)
}

// writeOccluder writes a binary STL holding one large horizontal
// triangle at height z.
func writeOccluder(t *testing.T, path string, z float32) {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(1)))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, [12]float32{
		0, 0, 1,
		-500, -500, z, 500, -500, z, 0, 500, z,
	}))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(0)))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o666))
}

func TestCacheKeyTracksMeshes(t *testing.T) {
	dir := t.TempDir()
	in := testInputs()
	in.envPath = filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(in.envPath, []byte(`
time: 2024-06-21T16:00:00Z
surroundings:
  buildings: [occluder.stl]
`), 0o666))
	times := []time.Time{time.Date(2024, 6, 21, 16, 0, 0, 0, time.UTC)}

	key := func(z float32) cache.Key {
		writeOccluder(t, filepath.Join(dir, "occluder.stl"), z)
		j, err := load(in)
		require.NoError(t, err)
		return j.cacheKey(times)
	}
	overhead := key(100)
	assert.Equal(t, overhead, key(100))
	assert.NotEqual(t, overhead, key(-100), "mesh edited in place")

	in.bare = true
	assert.NotEqual(t, overhead, key(100), "surroundings ignored")
}

func TestServePortInUse(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()
	port := l.Addr().(*net.TCPAddr).Port

	done := make(chan error, 1)
	go func() { done <- runServe(context.Background(), port, 1) }()
	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return")
	}
}

func TestTrimNewline(t *testing.T) {
	assert.Equal(t, "GET /", string(trimNewline([]byte("GET /\n"))))
	assert.Equal(t, "", string(trimNewline(nil)))
}
