package videos

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusActive     Status = "active"
	StatusFailed     Status = "failed"
)

// Record is the canonical video entity held in the record store.
// JSON tags are the wire names the browser client expects; dynamodbav
// tags are the attribute names in the DynamoDB table.
type Record struct {
	ID          string   `json:"id" dynamodbav:"id" gorm:"primaryKey"`
	Title       string   `json:"title" dynamodbav:"title"`
	Description string   `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Uploader    string   `json:"uploader,omitempty" dynamodbav:"uploader,omitempty"`
	Tags        []string `json:"tags,omitempty" dynamodbav:"tags,omitempty" gorm:"serializer:json"`

	// Set once when the upload URL is issued, immutable afterwards.
	FileName string `json:"fileName" dynamodbav:"fileName"`
	S3Key    string `json:"s3Key" dynamodbav:"s3Key"`
	FileType string `json:"fileType" dynamodbav:"fileType"`

	Status   Status  `json:"status" dynamodbav:"status"`
	Views    int64   `json:"views" dynamodbav:"views"`
	FileSize int64   `json:"fileSize" dynamodbav:"fileSize"`
	Duration float64 `json:"duration" dynamodbav:"duration"`

	// ErrorMessage is set only while Status is StatusFailed.
	ErrorMessage string `json:"errorMessage,omitempty" dynamodbav:"errorMessage,omitempty"`

	UploadDate time.Time `json:"uploadDate" dynamodbav:"uploadDate"`
	CreatedAt  int64     `json:"createdAt" dynamodbav:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt  int64     `json:"updatedAt" dynamodbav:"updatedAt" gorm:"autoUpdateTime:false"`

	// Derived from the CDN domain by the gateway, never persisted.
	ThumbnailURL string `json:"thumbnailUrl,omitempty" dynamodbav:"-" gorm:"-"`
	VideoURL     string `json:"videoUrl,omitempty" dynamodbav:"-" gorm:"-"`
}

// mutableFields is the allow-list for partial updates. Identity and
// upload-time attributes (id, fileName, s3Key, fileType, uploadDate,
// createdAt) stay immutable; updatedAt is managed by the store.
var mutableFields = map[string]bool{
	"title":        true,
	"description":  true,
	"uploader":     true,
	"tags":         true,
	"status":       true,
	"views":        true,
	"fileSize":     true,
	"duration":     true,
	"errorMessage": true,
}

// Mutable reports whether a field name may appear in a partial update.
func Mutable(field string) bool {
	return mutableFields[field]
}

func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Now is the timestamp format stored in createdAt/updatedAt.
func Now() int64 {
	return time.Now().UnixMilli()
}
