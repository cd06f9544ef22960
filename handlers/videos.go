package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"vidshare-site/metrics"
	"vidshare-site/store"
	"vidshare-site/videos"
)

const (
	defaultPage  = 1
	defaultLimit = 12
)

// ListVideos returns active records, newest upload first, with
// optional search and in-memory pagination. Search is a
// case-insensitive substring match over title and description.
func (g *Gateway) ListVideos(c echo.Context) error {
	search := c.QueryParam("search")
	page := queryInt(c, "page", defaultPage)
	limit := queryInt(c, "limit", defaultLimit)

	all, err := g.Records.ListAll(c.Request().Context())
	if err != nil {
		log.Errorf("error listing videos: %v", err)
		metrics.RequestsTotal.WithLabelValues("list", "error").Inc()
		return fail(c, http.StatusInternalServerError, "Internal server error", err)
	}

	matched := make([]videos.Record, 0, len(all))
	needle := strings.ToLower(search)
	for _, rec := range all {
		if rec.Status != videos.StatusActive {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(rec.Title), needle) &&
			!strings.Contains(strings.ToLower(rec.Description), needle) {
			continue
		}
		matched = append(matched, rec)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UploadDate.After(matched[j].UploadDate)
	})

	total := len(matched)
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := matched[start:end]
	for i := range items {
		g.decorate(&items[i])
	}

	metrics.RequestsTotal.WithLabelValues("list", "ok").Inc()
	return c.JSON(http.StatusOK, echo.Map{
		"videos":  items,
		"total":   total,
		"page":    page,
		"limit":   limit,
		"hasMore": page*limit < total,
	})
}

func (g *Gateway) GetVideo(c echo.Context) error {
	rec, err := g.Records.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		metrics.RequestsTotal.WithLabelValues("get", "not_found").Inc()
		return notFound(c, err)
	}
	if err != nil {
		metrics.RequestsTotal.WithLabelValues("get", "error").Inc()
		return fail(c, http.StatusInternalServerError, "Internal server error", err)
	}

	g.decorate(rec)
	metrics.RequestsTotal.WithLabelValues("get", "ok").Inc()
	return c.JSON(http.StatusOK, rec)
}

// CreateVideo stores a full metadata record: id defaulted when absent,
// status forced to active, views zeroed, timestamps set.
func (g *Gateway) CreateVideo(c echo.Context) error {
	var rec videos.Record
	if err := c.Bind(&rec); err != nil {
		metrics.RequestsTotal.WithLabelValues("create", "error").Inc()
		return fail(c, http.StatusInternalServerError, "Internal server error", err)
	}
	if rec.Title == "" {
		metrics.RequestsTotal.WithLabelValues("create", "invalid").Inc()
		return fail(c, http.StatusInternalServerError, "Internal server error",
			errors.New("title is required"))
	}

	if rec.ID == "" {
		rec.ID = videos.NewID()
	}
	rec.Status = videos.StatusActive
	rec.Views = 0
	rec.ErrorMessage = ""
	rec.UploadDate = timeNow()
	now := videos.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := g.Records.Put(c.Request().Context(), &rec); err != nil {
		log.Errorf("error creating video: %v", err)
		metrics.RequestsTotal.WithLabelValues("create", "error").Inc()
		return fail(c, http.StatusInternalServerError, "Internal server error", err)
	}

	g.decorate(&rec)
	metrics.RequestsTotal.WithLabelValues("create", "ok").Inc()
	return c.JSON(http.StatusCreated, &rec)
}

// UpdateVideo merges only the supplied fields. Field names are checked
// against the mutable allow-list before any store write, so identity
// attributes can never be rewritten through this path.
func (g *Gateway) UpdateVideo(c echo.Context) error {
	var fields map[string]any
	if err := c.Bind(&fields); err != nil {
		metrics.RequestsTotal.WithLabelValues("update", "error").Inc()
		return fail(c, http.StatusInternalServerError, "Internal server error", err)
	}
	if len(fields) == 0 {
		metrics.RequestsTotal.WithLabelValues("update", "invalid").Inc()
		return fail(c, http.StatusInternalServerError, "Internal server error",
			errors.New("no fields to update"))
	}
	for name := range fields {
		if !videos.Mutable(name) {
			metrics.RequestsTotal.WithLabelValues("update", "invalid").Inc()
			return fail(c, http.StatusInternalServerError, "Internal server error",
				errors.New("field "+strconv.Quote(name)+" cannot be updated"))
		}
	}

	rec, err := g.Records.UpdateFields(c.Request().Context(), c.Param("id"), fields)
	if errors.Is(err, store.ErrNotFound) {
		metrics.RequestsTotal.WithLabelValues("update", "not_found").Inc()
		return notFound(c, err)
	}
	if err != nil {
		log.Errorf("error updating video: %v", err)
		metrics.RequestsTotal.WithLabelValues("update", "error").Inc()
		return fail(c, http.StatusInternalServerError, "Internal server error", err)
	}

	g.decorate(rec)
	metrics.RequestsTotal.WithLabelValues("update", "ok").Inc()
	return c.JSON(http.StatusOK, rec)
}

// DeleteVideo removes the record unconditionally. The stored object is
// not cleaned up here.
func (g *Gateway) DeleteVideo(c echo.Context) error {
	err := g.Records.Delete(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		metrics.RequestsTotal.WithLabelValues("delete", "not_found").Inc()
		return notFound(c, err)
	}
	if err != nil {
		log.Errorf("error deleting video: %v", err)
		metrics.RequestsTotal.WithLabelValues("delete", "error").Inc()
		return fail(c, http.StatusInternalServerError, "Internal server error", err)
	}

	metrics.RequestsTotal.WithLabelValues("delete", "ok").Inc()
	return c.NoContent(http.StatusNoContent)
}

// TrackView bumps the view counter. Concurrent bumps are
// last-write-wins, which is acceptable for this counter.
func (g *Gateway) TrackView(c echo.Context) error {
	ctx := c.Request().Context()
	rec, err := g.Records.Get(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, err)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error", err)
	}

	rec, err = g.Records.UpdateFields(ctx, rec.ID, map[string]any{"views": rec.Views + 1})
	if err != nil {
		log.Errorf("error tracking view: %v", err)
		return fail(c, http.StatusInternalServerError, "Internal server error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"views": rec.Views})
}

func queryInt(c echo.Context, name string, fallback int) int {
	v := c.QueryParam(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
