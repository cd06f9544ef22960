// Package store holds the record store adapters. The service talks to
// a RecordStore interface so the same gateway and worker run against
// DynamoDB in production, sqlite locally, or an in-memory map in tests.
package store

import (
	"context"
	"errors"
	"fmt"

	"vidshare-site/videos"
)

// ErrNotFound means the referenced record id does not exist.
var ErrNotFound = errors.New("video record not found")

type RecordStore interface {
	// Put writes the full record, overwriting any existing item.
	Put(ctx context.Context, rec *videos.Record) error

	// Get retrieves a record by id, or ErrNotFound.
	Get(ctx context.Context, id string) (*videos.Record, error)

	// UpdateFields writes only the named attributes plus a refreshed
	// updatedAt, as a single conditionless write. It fails with
	// ErrNotFound if the id does not exist and returns the record as
	// written.
	UpdateFields(ctx context.Context, id string, fields map[string]any) (*videos.Record, error)

	// Delete removes the record, or ErrNotFound.
	Delete(ctx context.Context, id string) error

	// ListAll returns every record in the store.
	ListAll(ctx context.Context) ([]videos.Record, error)
}

// applyFields merges a partial update into a record. Values arrive as
// decoded JSON (float64 numbers, []any arrays), so each field coerces
// what it accepts. Unknown fields are rejected; callers validate
// against the allow-list first, this is the backstop.
func applyFields(rec *videos.Record, fields map[string]any) error {
	for name, value := range fields {
		var err error
		switch name {
		case "title":
			rec.Title, err = asString(name, value)
		case "description":
			rec.Description, err = asString(name, value)
		case "uploader":
			rec.Uploader, err = asString(name, value)
		case "errorMessage":
			rec.ErrorMessage, err = asString(name, value)
		case "status":
			var s string
			s, err = asString(name, value)
			rec.Status = videos.Status(s)
		case "tags":
			rec.Tags, err = asStringSlice(name, value)
		case "views":
			rec.Views, err = asInt64(name, value)
		case "fileSize":
			rec.FileSize, err = asInt64(name, value)
		case "duration":
			rec.Duration, err = asFloat64(name, value)
		default:
			err = fmt.Errorf("field %q is not updatable", name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func asString(name string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q: expected string, got %T", name, v)
	}
	return s, nil
}

func asInt64(name string, v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	}
	return 0, fmt.Errorf("field %q: expected number, got %T", name, v)
}

func asFloat64(name string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	}
	return 0, fmt.Errorf("field %q: expected number, got %T", name, v)
}

func asStringSlice(name string, v any) ([]string, error) {
	switch t := v.(type) {
	case []string:
		return t, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("field %q: expected string elements, got %T", name, e)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("field %q: expected string array, got %T", name, v)
}
