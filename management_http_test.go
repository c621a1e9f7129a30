package smartcache_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/longbridgeapp/assert"

	smartcache "github.com/hyp3rd/smartcache"
	"github.com/hyp3rd/smartcache/pkg/index"
	"github.com/hyp3rd/smartcache/types"
)

// TestManagementHTTP_BasicEndpoints spins up the management HTTP server on an
// ephemeral port and validates core endpoints.
func TestManagementHTTP_BasicEndpoints(t *testing.T) {
	cache, err := smartcache.NewInMemoryWithDefaults(index.Descriptor{
		Keys: []string{"_id", "model"},
	})
	assert.Nil(t, err)

	ctx := context.Background()

	err = cache.Set(ctx, "vehicles", "a", types.Document{"_id": "a", "model": "x"})
	assert.Nil(t, err)
	err = cache.Set(ctx, "vehicles", "b", types.Document{"_id": "b", "model": "x"})
	assert.Nil(t, err)

	srv := smartcache.NewManagementHTTPServer("127.0.0.1:0")

	err = srv.Start(ctx, cache)
	assert.Nil(t, err)

	defer func() { _ = srv.Shutdown(ctx) }()

	// wait briefly for listener
	time.Sleep(30 * time.Millisecond)

	addr := srv.Address()
	assert.True(t, addr != "")

	client := &http.Client{Timeout: 2 * time.Second}

	// /health
	resp, err := client.Get("http://" + addr + "/health")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// /stats
	resp, err = client.Get("http://" + addr + "/stats")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var statsBody map[string]any

	err = json.NewDecoder(resp.Body).Decode(&statsBody)
	assert.Nil(t, err)
	_ = resp.Body.Close()

	// /indexes
	resp, err = client.Get("http://" + addr + "/indexes")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var indexBody map[string]any

	err = json.NewDecoder(resp.Body).Decode(&indexBody)
	assert.Nil(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "_id", indexBody["primaryKey"])

	// /docs
	resp, err = client.Get("http://" + addr + "/docs?store=vehicles")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var docsBody map[string]any

	err = json.NewDecoder(resp.Body).Decode(&docsBody)
	assert.Nil(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, float64(2), docsBody["count"])
}

func TestManagementHTTP_Search(t *testing.T) {
	cache, err := smartcache.NewInMemoryWithDefaults(index.Descriptor{
		Keys: []string{"_id", "model"},
	})
	assert.Nil(t, err)

	ctx := context.Background()

	err = cache.Set(ctx, "vehicles", "a", types.Document{"_id": "a", "model": "x"})
	assert.Nil(t, err)

	srv := smartcache.NewManagementHTTPServer("127.0.0.1:0")

	err = srv.Start(ctx, cache)
	assert.Nil(t, err)

	defer func() { _ = srv.Shutdown(ctx) }()

	time.Sleep(30 * time.Millisecond)

	client := &http.Client{Timeout: 2 * time.Second}
	url := "http://" + srv.Address() + "/search"

	body, _ := json.Marshal(map[string]any{
		"store":  "vehicles",
		"filter": map[string]any{"model": "x"},
	})

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]any

	err = json.NewDecoder(resp.Body).Decode(&result)
	assert.Nil(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, float64(1), result["count"])

	// A filter with no covering index maps to 404.
	body, _ = json.Marshal(map[string]any{
		"store":  "vehicles",
		"filter": map[string]any{"color": "red"},
	})

	resp, err = client.Post(url, "application/json", bytes.NewReader(body))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}
