// Package handlers is the video CRUD gateway: list/create/update/
// delete over the record store, signed upload URL issuance, and the
// storage-event webhook.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"vidshare-site/blob"
	"vidshare-site/processing"
	"vidshare-site/store"
	"vidshare-site/videos"
)

type Gateway struct {
	Records store.RecordStore
	Videos  blob.ObjectStore
	Worker  *processing.Worker

	// CDNDomain, when set, is used to derive thumbnailUrl/videoUrl on
	// returned records.
	CDNDomain string

	// UploadTTL bounds issued upload URLs; zero means the default.
	UploadTTL time.Duration
}

// Register wires the gateway's routes onto the echo instance. A nil
// authRequired leaves every route open, matching a deployment where
// the API sits behind its own authorizer.
func (g *Gateway) Register(e *echo.Echo, authRequired echo.MiddlewareFunc) {
	if authRequired == nil {
		authRequired = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	e.POST("/upload/signed-url", g.SignedUploadURL, authRequired)
	e.GET("/videos", g.ListVideos)
	e.GET("/videos/:id", g.GetVideo)
	e.POST("/videos", g.CreateVideo, authRequired)
	e.PUT("/videos/:id", g.UpdateVideo, authRequired)
	e.DELETE("/videos/:id", g.DeleteVideo, authRequired)
	e.POST("/videos/:id/view", g.TrackView)
	e.POST("/events/storage", g.StorageEvent)
}

func (g *Gateway) uploadTTL() time.Duration {
	if g.UploadTTL > 0 {
		return g.UploadTTL
	}
	return blob.UploadURLTTL
}

// decorate fills the CDN-derived URLs the presentation layer resolves
// without a database lookup.
func (g *Gateway) decorate(rec *videos.Record) {
	if g.CDNDomain == "" {
		return
	}
	base := g.CDNDomain
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	rec.ThumbnailURL = base + "/" + videos.ThumbnailKey(rec.ID)
	if rec.FileName != "" {
		rec.VideoURL = base + "/" + videos.VideoKeyPrefix + "/" + rec.FileName
	}
}

// fail writes the {error, message} envelope the browser client
// expects. Codes stay within 404/405/500; finer taxonomy lives in the
// message.
func fail(c echo.Context, code int, summary string, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return c.JSON(code, echo.Map{
		"error":   summary,
		"message": message,
	})
}

func notFound(c echo.Context, err error) error {
	return fail(c, http.StatusNotFound, "Not found", err)
}

func timeNow() time.Time {
	return time.Now().UTC()
}
