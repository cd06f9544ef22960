package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"vidshare-site/metrics"
	"vidshare-site/videos"
)

type signedURLRequest struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}

// SignedUploadURL issues a capability URL for a single PUT of a new
// video object and creates the placeholder record in state uploading,
// so the video id is known before any bytes are transferred.
func (g *Gateway) SignedUploadURL(c echo.Context) error {
	var req signedURLRequest
	if err := c.Bind(&req); err != nil {
		metrics.UploadURLsTotal.WithLabelValues("error").Inc()
		return fail(c, http.StatusInternalServerError, "Failed to generate upload URL", err)
	}
	if req.FileName == "" || req.FileType == "" {
		metrics.UploadURLsTotal.WithLabelValues("error").Inc()
		return fail(c, http.StatusInternalServerError, "Failed to generate upload URL",
			errors.New("fileName and fileType are required"))
	}

	videoID := videos.NewID()
	s3Key := videos.VideoKey(videoID, req.FileName)

	uploadURL, err := g.Videos.IssueUploadURL(c.Request().Context(), s3Key, req.FileType, g.uploadTTL())
	if err != nil {
		log.Errorf("error generating signed URL: %v", err)
		metrics.UploadURLsTotal.WithLabelValues("error").Inc()
		return fail(c, http.StatusInternalServerError, "Failed to generate upload URL", err)
	}

	now := videos.Now()
	rec := &videos.Record{
		ID:         videoID,
		FileName:   req.FileName,
		S3Key:      s3Key,
		FileType:   req.FileType,
		Status:     videos.StatusUploading,
		UploadDate: timeNow(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := g.Records.Put(c.Request().Context(), rec); err != nil {
		log.Errorf("error creating placeholder record: %v", err)
		metrics.UploadURLsTotal.WithLabelValues("error").Inc()
		return fail(c, http.StatusInternalServerError, "Failed to generate upload URL", err)
	}

	metrics.UploadURLsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, echo.Map{
		"uploadUrl": uploadURL,
		"videoId":   videoID,
		"s3Key":     s3Key,
	})
}
