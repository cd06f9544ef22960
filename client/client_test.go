package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockGateway fakes the CRUD gateway plus the storage PUT target.
type mockGateway struct {
	mux           *http.ServeMux
	server        *httptest.Server
	requests      atomic.Int64
	putBytes      atomic.Int64
	lastToken     string
	failSignedURL bool
}

func newMockGateway(t *testing.T) *mockGateway {
	t.Helper()
	m := &mockGateway{mux: http.NewServeMux()}
	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requests.Add(1)
		m.lastToken = r.Header.Get("Authorization")
		m.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(m.server.Close)

	m.mux.HandleFunc("POST /upload/signed-url", func(w http.ResponseWriter, r *http.Request) {
		if m.failSignedURL {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{
				"error":   "Failed to generate upload URL",
				"message": "bucket unavailable",
			})
			return
		}
		var req struct {
			FileName string `json:"fileName"`
			FileType string `json:"fileType"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]string{
			"uploadUrl": m.server.URL + "/storage/videos/vid-1.mp4",
			"videoId":   "vid-1",
			"s3Key":     "videos/vid-1.mp4",
		})
	})
	m.mux.HandleFunc("PUT /storage/", func(w http.ResponseWriter, r *http.Request) {
		n, _ := io.Copy(io.Discard, r.Body)
		m.putBytes.Store(n)
		w.WriteHeader(http.StatusOK)
	})
	m.mux.HandleFunc("POST /videos", func(w http.ResponseWriter, r *http.Request) {
		var rec map[string]any
		json.NewDecoder(r.Body).Decode(&rec)
		rec["id"] = "vid-2"
		rec["status"] = "active"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(rec)
	})
	m.mux.HandleFunc("GET /videos", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"videos":  []map[string]any{{"id": "vid-1", "title": "First"}},
			"total":   1,
			"page":    1,
			"limit":   12,
			"hasMore": false,
		})
	})
	return m
}

func TestUploadVideoProgressAndResult(t *testing.T) {
	m := newMockGateway(t)
	c := New(m.server.URL, StaticToken("secret-token"))

	payload := bytes.Repeat([]byte("v"), 1<<20)
	var progress []float64
	result := c.UploadVideo(context.Background(), bytes.NewReader(payload), int64(len(payload)),
		"holiday.mp4", "video/mp4",
		UploadMeta{Title: "Test", Description: "d"},
		func(p float64) { progress = append(progress, p) })

	require.True(t, result.Success, result.Error)
	assert.Equal(t, "vid-2", result.VideoID)
	assert.Equal(t, int64(len(payload)), m.putBytes.Load())
	assert.Equal(t, "Bearer secret-token", m.lastToken)

	require.NotEmpty(t, progress)
	assert.Equal(t, float64(5), progress[0])
	assert.Equal(t, float64(100), progress[len(progress)-1])
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1],
			fmt.Sprintf("progress regressed at %d", i))
	}
	// the transfer itself reports between 10 and 80
	var sawTransfer bool
	for _, p := range progress {
		if p > 10 && p < 85 {
			sawTransfer = true
			assert.LessOrEqual(t, p, float64(80))
		}
	}
	assert.True(t, sawTransfer)
}

func TestUploadVideoRequiresFileAndTitle(t *testing.T) {
	m := newMockGateway(t)
	c := New(m.server.URL, nil)

	result := c.UploadVideo(context.Background(), nil, 0, "a.mp4", "video/mp4",
		UploadMeta{Title: "Test"}, nil)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)

	result = c.UploadVideo(context.Background(), bytes.NewReader([]byte("x")), 1, "a.mp4", "video/mp4",
		UploadMeta{}, nil)
	assert.False(t, result.Success)

	// refused before any request goes out
	assert.Zero(t, m.requests.Load())
}

func TestUploadVideoSurfacesSignedURLFailure(t *testing.T) {
	m := newMockGateway(t)
	m.failSignedURL = true
	c := New(m.server.URL, nil)

	result := c.UploadVideo(context.Background(), bytes.NewReader([]byte("x")), 1,
		"a.mp4", "video/mp4", UploadMeta{Title: "Test"}, nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "bucket unavailable")
}

func TestVideosList(t *testing.T) {
	m := newMockGateway(t)
	c := New(m.server.URL, nil)

	list, err := c.Videos(context.Background(), "", 1, 12)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Videos, 1)
	assert.Equal(t, "First", list.Videos[0].Title)
	assert.False(t, list.HasMore)
}
