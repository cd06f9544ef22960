// Package processing advances a video record from upload completion to
// ready-for-playback. It is driven by storage object-creation
// notifications, delivered either by SQS or by the webhook endpoint.
package processing

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"vidshare-site/blob"
	"vidshare-site/metrics"
	"vidshare-site/store"
	"vidshare-site/videos"
)

type Worker struct {
	records    store.RecordStore
	videos     blob.ObjectStore
	thumbnails blob.ObjectStore
	log        *logrus.Logger
}

func NewWorker(records store.RecordStore, videoStore, thumbnailStore blob.ObjectStore, logger *logrus.Logger) *Worker {
	return &Worker{
		records:    records,
		videos:     videoStore,
		thumbnails: thumbnailStore,
		log: logger.WithFields(logrus.Fields{
			"component": "processing",
		}).Logger,
	}
}

// Process drives the record for one uploaded object through
// processing to active, or to failed. The key must follow the
// videos/<id>.<ext> convention. Records already active are skipped so
// duplicate notification delivery does not reprocess an object.
//
// Any failure after the id is known triggers a best-effort failed
// write before the original error is returned; redelivery policy
// belongs to the invoking infrastructure.
func (w *Worker) Process(ctx context.Context, bucket, key string) error {
	w.log.Infof("processing video: %s/%s", bucket, key)

	id, err := videos.ParseKey(key)
	if err != nil {
		metrics.ProcessingTotal.WithLabelValues("malformed_key").Inc()
		return err
	}

	if rec, err := w.records.Get(ctx, id); err == nil && rec.Status == videos.StatusActive {
		w.log.Infof("video %s already active, skipping duplicate notification", id)
		metrics.ProcessingTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	if err := w.process(ctx, id, key); err != nil {
		metrics.ProcessingTotal.WithLabelValues("failed").Inc()
		w.markFailed(ctx, id, err)
		return err
	}

	metrics.ProcessingTotal.WithLabelValues("active").Inc()
	w.log.Infof("video processing completed for: %s", id)
	return nil
}

func (w *Worker) process(ctx context.Context, id, key string) error {
	// clearing errorMessage here lets a redelivered notification
	// recover a previously failed record cleanly
	if _, err := w.records.UpdateFields(ctx, id, map[string]any{
		"status":       string(videos.StatusProcessing),
		"errorMessage": "",
	}); err != nil {
		return fmt.Errorf("failed to mark %s processing: %w", id, err)
	}

	if err := w.writeThumbnail(ctx, id); err != nil {
		return err
	}

	info, err := w.videos.DescribeObject(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read metadata for %s: %w", key, err)
	}
	if _, err := w.records.UpdateFields(ctx, id, map[string]any{
		"fileSize": info.Size,
		// a real media prober would fill this in
		"duration": float64(0),
	}); err != nil {
		return fmt.Errorf("failed to store metadata for %s: %w", id, err)
	}

	if _, err := w.records.UpdateFields(ctx, id, map[string]any{
		"status": string(videos.StatusActive),
	}); err != nil {
		return fmt.Errorf("failed to mark %s active: %w", id, err)
	}
	return nil
}

func (w *Worker) writeThumbnail(ctx context.Context, id string) error {
	thumb, err := placeholderThumbnail()
	if err != nil {
		return fmt.Errorf("failed to generate thumbnail for %s: %w", id, err)
	}

	key := videos.ThumbnailKey(id)
	if err := w.thumbnails.PutObject(ctx, key, thumb, "image/png", true); err != nil {
		return fmt.Errorf("failed to store thumbnail %s: %w", key, err)
	}
	w.log.Infof("thumbnail generated: %s", key)
	return nil
}

// markFailed is best-effort: if this write also fails, the record
// stays in its last written state and the original error still
// propagates.
func (w *Worker) markFailed(ctx context.Context, id string, cause error) {
	if _, err := w.records.UpdateFields(ctx, id, map[string]any{
		"status":       string(videos.StatusFailed),
		"errorMessage": cause.Error(),
	}); err != nil {
		w.log.Errorf("failed to mark video %s failed: %v", id, err)
	}
}
