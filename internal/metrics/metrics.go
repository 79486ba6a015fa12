// Package metrics holds the Prometheus collectors of the jstrace server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// parseTotal counts parse attempts.
	// Labels: kind (frame, stacktrace), result (ok, error)
	parseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jstrace",
		Name:      "parse_total",
		Help:      "Total stack trace parse attempts by kind and result",
	}, []string{"kind", "result"})

	// fingerprintTotal counts computed bthash/duphash pairs.
	fingerprintTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "jstrace",
		Name:      "fingerprint_total",
		Help:      "Total fingerprints computed",
	})

	// remapFramesTotal counts frames passed through a source map.
	// Labels: result (mapped, unmapped)
	remapFramesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jstrace",
		Name:      "remap_frames_total",
		Help:      "Total frames remapped through source maps by result",
	}, []string{"result"})
)

// RecordParse records the outcome of parsing a frame or a stack trace.
func RecordParse(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	parseTotal.WithLabelValues(kind, result).Inc()
}

// RecordFingerprint records one computed fingerprint.
func RecordFingerprint() {
	fingerprintTotal.Inc()
}

// RecordRemap records how many frames of a trace were mapped.
func RecordRemap(mapped, unmapped int) {
	remapFramesTotal.WithLabelValues("mapped").Add(float64(mapped))
	remapFramesTotal.WithLabelValues("unmapped").Add(float64(unmapped))
}
