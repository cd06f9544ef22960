package processing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Notification is the storage object-creation event payload: a list of
// records each naming a bucket and object key, in the S3 event shape.
type Notification struct {
	Records []NotificationRecord `json:"Records"`
}

type NotificationRecord struct {
	EventName string `json:"eventName"`
	S3        struct {
		Bucket struct {
			Name string `json:"name"`
		} `json:"bucket"`
		Object struct {
			Key string `json:"key"`
		} `json:"object"`
	} `json:"s3"`
}

// HandleNotification parses an event payload and processes every
// ObjectCreated record in it. The first processing failure aborts the
// batch so the invoking layer can redeliver it.
func (w *Worker) HandleNotification(ctx context.Context, payload []byte) error {
	var event Notification
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to parse storage event: %w", err)
	}

	for _, rec := range event.Records {
		if !strings.HasPrefix(rec.EventName, "ObjectCreated") {
			w.log.Debugf("ignoring storage event %q", rec.EventName)
			continue
		}

		// S3 URL-encodes object keys in event payloads
		key, err := url.QueryUnescape(rec.S3.Object.Key)
		if err != nil {
			key = rec.S3.Object.Key
		}

		if err := w.Process(ctx, rec.S3.Bucket.Name, key); err != nil {
			return err
		}
	}
	return nil
}
