package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UploadURLsTotal counts signed upload URL issuance attempts.
	UploadURLsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidshare_upload_urls_total",
		Help: "Signed upload URL requests by result",
	}, []string{"result"})

	// ProcessingTotal counts status-transition worker outcomes.
	ProcessingTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidshare_processing_total",
		Help: "Video processing runs by outcome",
	}, []string{"outcome"})

	// RequestsTotal counts CRUD gateway requests.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidshare_requests_total",
		Help: "CRUD gateway requests by operation and result",
	}, []string{"operation", "result"})
)
