package processing

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidshare-site/blob"
	"vidshare-site/store"
	"vidshare-site/videos"
)

type workerFixture struct {
	records    *store.MemoryStore
	videos     *blob.MemoryStore
	thumbnails *blob.MemoryStore
	worker     *Worker
}

func newWorkerFixture() *workerFixture {
	records := store.NewMemoryStore()
	videoStore := blob.NewMemoryStore("https://storage.test")
	thumbnailStore := blob.NewMemoryStore("https://storage.test")
	return &workerFixture{
		records:    records,
		videos:     videoStore,
		thumbnails: thumbnailStore,
		worker:     NewWorker(records, videoStore, thumbnailStore, logrus.New()),
	}
}

func (f *workerFixture) seedUploading(t *testing.T, id string) *videos.Record {
	t.Helper()
	now := videos.Now()
	rec := &videos.Record{
		ID:         id,
		FileName:   "clip.mp4",
		S3Key:      videos.VideoKey(id, "clip.mp4"),
		FileType:   "video/mp4",
		Status:     videos.StatusUploading,
		UploadDate: time.Now(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, f.records.Put(context.Background(), rec))
	return rec
}

func TestProcessSuccess(t *testing.T) {
	f := newWorkerFixture()
	rec := f.seedUploading(t, "abc123")
	f.videos.PutDirect(rec.S3Key, make([]byte, 10485760), "video/mp4")

	require.NoError(t, f.worker.Process(context.Background(), "videos-bucket", rec.S3Key))

	stored, err := f.records.Get(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, videos.StatusActive, stored.Status)
	assert.Equal(t, int64(10485760), stored.FileSize)
	assert.Zero(t, stored.Duration)
	assert.Empty(t, stored.ErrorMessage)
}

func TestProcessWritesDecodablePlaceholderThumbnail(t *testing.T) {
	f := newWorkerFixture()
	rec := f.seedUploading(t, "abc123")
	f.videos.PutDirect(rec.S3Key, []byte("movie bytes"), "video/mp4")

	require.NoError(t, f.worker.Process(context.Background(), "videos-bucket", rec.S3Key))

	data, ok := f.thumbnails.Object("thumbnails/abc123.png")
	require.True(t, ok)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, 640, bounds.Dx())
	assert.Equal(t, 360, bounds.Dy())
}

func TestProcessMetadataFailure(t *testing.T) {
	f := newWorkerFixture()
	rec := f.seedUploading(t, "abc123")
	// object never landed in storage, so the head request fails

	err := f.worker.Process(context.Background(), "videos-bucket", rec.S3Key)
	require.Error(t, err)
	assert.ErrorIs(t, err, blob.ErrObjectNotFound)

	stored, getErr := f.records.Get(context.Background(), "abc123")
	require.NoError(t, getErr)
	assert.Equal(t, videos.StatusFailed, stored.Status)
	assert.NotEmpty(t, stored.ErrorMessage)
}

func TestProcessRetryAfterFailureClearsErrorMessage(t *testing.T) {
	f := newWorkerFixture()
	rec := f.seedUploading(t, "abc123")

	// first delivery fails: the object never made it to storage
	require.Error(t, f.worker.Process(context.Background(), "videos-bucket", rec.S3Key))
	failed, err := f.records.Get(context.Background(), "abc123")
	require.NoError(t, err)
	require.Equal(t, videos.StatusFailed, failed.Status)
	require.NotEmpty(t, failed.ErrorMessage)

	// object lands, notification redelivered
	f.videos.PutDirect(rec.S3Key, make([]byte, 2048), "video/mp4")
	require.NoError(t, f.worker.Process(context.Background(), "videos-bucket", rec.S3Key))

	stored, err := f.records.Get(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, videos.StatusActive, stored.Status)
	assert.Equal(t, int64(2048), stored.FileSize)
	assert.Empty(t, stored.ErrorMessage)
}

func TestProcessThumbnailWriteFailure(t *testing.T) {
	f := newWorkerFixture()
	rec := f.seedUploading(t, "abc123")
	f.videos.PutDirect(rec.S3Key, []byte("movie bytes"), "video/mp4")
	f.thumbnails.FailPuts = true

	err := f.worker.Process(context.Background(), "videos-bucket", rec.S3Key)
	require.Error(t, err)

	stored, getErr := f.records.Get(context.Background(), "abc123")
	require.NoError(t, getErr)
	assert.Equal(t, videos.StatusFailed, stored.Status)
	assert.NotEmpty(t, stored.ErrorMessage)
}

func TestProcessMalformedKey(t *testing.T) {
	f := newWorkerFixture()

	err := f.worker.Process(context.Background(), "videos-bucket", "abc123.mp4")
	assert.ErrorIs(t, err, videos.ErrMalformedKey)

	all, listErr := f.records.ListAll(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, all)
}

func TestProcessMissingRecordPropagates(t *testing.T) {
	f := newWorkerFixture()

	err := f.worker.Process(context.Background(), "videos-bucket", "videos/ghost.mp4")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProcessSkipsAlreadyActive(t *testing.T) {
	f := newWorkerFixture()
	rec := f.seedUploading(t, "abc123")
	before, err := f.records.UpdateFields(context.Background(), rec.ID, map[string]any{
		"status": string(videos.StatusActive),
	})
	require.NoError(t, err)

	// no object in storage: a reprocess would fail, a skip won't
	require.NoError(t, f.worker.Process(context.Background(), "videos-bucket", rec.S3Key))

	after, err := f.records.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	assert.Equal(t, videos.StatusActive, after.Status)
}

func TestHandleNotification(t *testing.T) {
	f := newWorkerFixture()
	rec := f.seedUploading(t, "abc123")
	f.videos.PutDirect(rec.S3Key, []byte("movie bytes"), "video/mp4")

	payload := []byte(`{"Records":[
		{"eventName":"ObjectRemoved:Delete","s3":{"bucket":{"name":"b"},"object":{"key":"videos/zzz.mp4"}}},
		{"eventName":"ObjectCreated:Put","s3":{"bucket":{"name":"b"},"object":{"key":"videos/abc123.mp4"}}}
	]}`)
	require.NoError(t, f.worker.HandleNotification(context.Background(), payload))

	stored, err := f.records.Get(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, videos.StatusActive, stored.Status)
}

func TestHandleNotificationDecodesObjectKey(t *testing.T) {
	f := newWorkerFixture()
	now := videos.Now()
	rec := &videos.Record{
		ID:         "abc 123",
		FileName:   "my clip.mp4",
		S3Key:      "videos/abc 123.mp4",
		Status:     videos.StatusUploading,
		UploadDate: time.Now(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, f.records.Put(context.Background(), rec))
	f.videos.PutDirect("videos/abc 123.mp4", []byte("movie bytes"), "video/mp4")

	payload := []byte(`{"Records":[{"eventName":"ObjectCreated:Put","s3":{"bucket":{"name":"b"},"object":{"key":"videos/abc+123.mp4"}}}]}`)
	require.NoError(t, f.worker.HandleNotification(context.Background(), payload))

	stored, err := f.records.Get(context.Background(), "abc 123")
	require.NoError(t, err)
	assert.Equal(t, videos.StatusActive, stored.Status)
}

func TestHandleNotificationBadPayload(t *testing.T) {
	f := newWorkerFixture()
	assert.Error(t, f.worker.HandleNotification(context.Background(), []byte("not json")))
}
