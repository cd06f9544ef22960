package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"vidshare-site/videos"
)

// UploadMeta is the user-supplied description of an upload. Title is
// required.
type UploadMeta struct {
	Title       string
	Description string
	Uploader    string
	Tags        []string
}

// UploadResult is the terminal state of an upload attempt. Failures
// stay inside the result instead of escaping as errors, so a UI always
// has something to render.
type UploadResult struct {
	Success bool
	VideoID string
	Error   string
}

// Progress fractions reported around the transfer itself: the PUT
// occupies 10% to 80% of the bar, linear in bytes sent.
const (
	progressURLRequested  = 5
	progressURLReceived   = 10
	progressUploadSpan    = 70
	progressRecordCreated = 85
	progressDone          = 100
)

// UploadVideo runs the full upload sequence: signed URL, direct PUT to
// storage, then record creation. onProgress receives monotonically
// increasing percentages from 0 to 100; size is the file length in
// bytes and must be accurate for progress to be meaningful.
//
// The uploading placeholder created alongside the signed URL is not
// rolled back when a later step fails.
func (c *Client) UploadVideo(ctx context.Context, file io.Reader, size int64, fileName, fileType string,
	meta UploadMeta, onProgress func(float64)) UploadResult {

	if onProgress == nil {
		onProgress = func(float64) {}
	}
	if file == nil || meta.Title == "" {
		return UploadResult{Error: "a file and a title are required"}
	}

	onProgress(progressURLRequested)
	signed, err := c.SignedUploadURL(ctx, fileName, fileType)
	if err != nil {
		return UploadResult{Error: err.Error()}
	}

	onProgress(progressURLReceived)
	if err := c.putFile(ctx, signed.UploadURL, file, size, fileType, func(frac float64) {
		onProgress(progressURLReceived + frac*progressUploadSpan)
	}); err != nil {
		return UploadResult{Error: err.Error()}
	}

	onProgress(progressRecordCreated)
	var rec videos.Record
	err = c.do(ctx, http.MethodPost, "/videos", map[string]any{
		"title":       meta.Title,
		"description": meta.Description,
		"uploader":    meta.Uploader,
		"tags":        meta.Tags,
		"fileName":    fileName,
		"fileSize":    size,
		"duration":    0,
	}, &rec)
	if err != nil {
		return UploadResult{Error: err.Error()}
	}

	onProgress(progressDone)
	return UploadResult{Success: true, VideoID: rec.ID}
}

// putFile streams the file to storage through the capability URL with
// a single PUT.
func (c *Client) putFile(ctx context.Context, uploadURL string, file io.Reader, size int64,
	contentType string, onProgress func(float64)) error {

	body := &progressReader{r: file, total: size, fn: onProgress}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload failed: status %d", resp.StatusCode)
	}
	return nil
}
