package config

import (
	"os"
)

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// GetLogLevel is a logrus level name, e.g. "debug" or "info".
func GetLogLevel() string {
	return getEnv("VIDSHARE_LOG_LEVEL", "info")
}

func GetListenAddr() string {
	return getEnv("VIDSHARE_LISTEN_ADDR", ":8080")
}

func GetRegion() string {
	return getEnv("VIDSHARE_AWS_REGION", "")
}

func GetVideosBucket() string {
	return getEnv("VIDSHARE_VIDEOS_BUCKET", "")
}

func GetThumbnailsBucket() string {
	return getEnv("VIDSHARE_THUMBNAILS_BUCKET", "")
}

func GetVideosTable() string {
	return getEnv("VIDSHARE_VIDEOS_TABLE", "")
}

// GetStoreBackend selects the record store: "dynamodb", "sqlite", or
// "memory".
func GetStoreBackend() string {
	return getEnv("VIDSHARE_STORE_BACKEND", "dynamodb")
}

func GetSQLitePath() string {
	return getEnv("VIDSHARE_SQLITE_PATH", "videos.db")
}

// GetEventsQueueURL is the SQS queue carrying storage object-created
// notifications. Empty disables the consumer; the webhook endpoint
// still accepts events.
func GetEventsQueueURL() string {
	return getEnv("VIDSHARE_EVENTS_QUEUE_URL", "")
}

func GetAPIBaseURL() string {
	return getEnv("VIDSHARE_API_BASE_URL", "")
}

// GetCDNDomain is the content-delivery domain used to derive thumbnail
// and playback URLs on returned records. Empty leaves them unset.
func GetCDNDomain() string {
	return getEnv("VIDSHARE_CDN_DOMAIN", "")
}

// GetAuthSecret is the HS256 secret for bearer-token validation on
// mutating routes. Empty leaves the API open.
func GetAuthSecret() string {
	return getEnv("VIDSHARE_AUTH_SECRET", "")
}
