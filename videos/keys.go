package videos

import (
	"errors"
	"fmt"
	"strings"
)

const (
	VideoKeyPrefix     = "videos"
	ThumbnailKeyPrefix = "thumbnails"
)

// ErrMalformedKey means an object key does not follow the
// <prefix>/<id>.<ext> naming convention.
var ErrMalformedKey = errors.New("malformed object key")

// VideoKey returns the storage key for an uploaded source object,
// videos/<id>.<ext>, where ext is the suffix of fileName after the
// last dot.
func VideoKey(id, fileName string) string {
	return fmt.Sprintf("%s/%s.%s", VideoKeyPrefix, id, fileExt(fileName))
}

// ThumbnailKey returns the deterministic key for a video's derived
// thumbnail. Consumers resolve it from the id alone, without a
// database lookup.
func ThumbnailKey(id string) string {
	return fmt.Sprintf("%s/%s.png", ThumbnailKeyPrefix, id)
}

// ParseKey extracts the video id from an object key following the
// <prefix>/<id>.<ext> convention. It never guesses: a key without
// exactly one path separator, or without a non-empty id and extension,
// fails with ErrMalformedKey.
func ParseKey(key string) (string, error) {
	segments := strings.Split(key, "/")
	if len(segments) != 2 || segments[0] == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}
	name := segments[1]
	dot := strings.LastIndex(name, ".")
	if dot <= 0 || dot == len(name)-1 {
		return "", fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}
	return name[:dot], nil
}

func fileExt(fileName string) string {
	if i := strings.LastIndex(fileName, "."); i >= 0 && i < len(fileName)-1 {
		return fileName[i+1:]
	}
	return fileName
}
