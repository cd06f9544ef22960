package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidshare-site/blob"
	"vidshare-site/handlers"
	"vidshare-site/processing"
	"vidshare-site/store"
	"vidshare-site/videos"
)

// TestUploadLifecycle runs the whole sequence against the real
// gateway and worker: signed URL, direct PUT, record creation, storage
// notification, then observation of the final state.
func TestUploadLifecycle(t *testing.T) {
	logger := logrus.New()
	require.NoError(t, handlers.Init(logger))

	records := store.NewMemoryStore()
	e := echo.New()

	server := httptest.NewServer(e)
	defer server.Close()

	videoStore := blob.NewMemoryStore(server.URL + "/storage")
	thumbnailStore := blob.NewMemoryStore(server.URL + "/storage")
	worker := processing.NewWorker(records, videoStore, thumbnailStore, logger)

	gateway := &handlers.Gateway{
		Records: records,
		Videos:  videoStore,
		Worker:  worker,
	}
	gateway.Register(e, nil)

	// storage PUT target the memory blob's signed URLs point at
	e.PUT("/storage/*", func(c echo.Context) error {
		data, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return err
		}
		videoStore.PutDirect(c.Param("*"), data, c.Request().Header.Get(echo.HeaderContentType))
		return c.NoContent(http.StatusOK)
	})

	c := New(server.URL, nil)

	payload := bytes.Repeat([]byte("m"), 10485760)
	var progress []float64
	result := c.UploadVideo(context.Background(), bytes.NewReader(payload), int64(len(payload)),
		"test.mp4", "video/mp4", UploadMeta{Title: "Test"},
		func(p float64) { progress = append(progress, p) })
	require.True(t, result.Success, result.Error)

	// progress ramps monotonically from 5 to 100
	require.NotEmpty(t, progress)
	assert.Equal(t, float64(5), progress[0])
	assert.Equal(t, float64(100), progress[len(progress)-1])
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1])
	}

	// the placeholder record created alongside the signed URL is still
	// uploading until the storage notification lands
	all, err := records.ListAll(context.Background())
	require.NoError(t, err)
	var placeholder *videos.Record
	for i := range all {
		if all[i].Status == videos.StatusUploading {
			placeholder = &all[i]
		}
	}
	require.NotNil(t, placeholder)

	// deliver the object-created notification
	payloadJSON := fmt.Sprintf(`{"Records":[{"eventName":"ObjectCreated:Put","s3":{"bucket":{"name":"videos-bucket"},"object":{"key":"%s"}}}]}`, placeholder.S3Key)
	resp, err := http.Post(server.URL+"/events/storage", "application/json", bytes.NewReader([]byte(payloadJSON)))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// the record reached active with the object's true size
	processed, err := c.Video(context.Background(), placeholder.ID)
	require.NoError(t, err)
	assert.Equal(t, videos.StatusActive, processed.Status)
	assert.Equal(t, int64(10485760), processed.FileSize)
	assert.Zero(t, processed.Duration)

	// the metadata record created at step 3 is immediately listable
	created, err := c.Video(context.Background(), result.VideoID)
	require.NoError(t, err)
	assert.Equal(t, "Test", created.Title)
	assert.Equal(t, videos.StatusActive, created.Status)
	assert.Equal(t, int64(10485760), created.FileSize)
}
