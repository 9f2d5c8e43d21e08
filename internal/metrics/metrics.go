package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Addresses          *prometheus.CounterVec
	DocumentsGenerated prometheus.Counter
	Conversions        *prometheus.CounterVec
	ConversionSeconds  prometheus.Histogram
	RunSeconds         *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Addresses: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "themis_addresses_total",
			Help: "Total number of matched addresses by outcome.",
		}, []string{"outcome"}),
		DocumentsGenerated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "themis_documents_generated_total",
			Help: "Total number of documents rendered from a template.",
		}),
		Conversions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "themis_conversions_total",
			Help: "Total number of document to PDF conversions by status.",
		}, []string{"status"}),
		ConversionSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "themis_conversion_duration_seconds",
			Help:    "Duration of a single document conversion, retries included.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),
		RunSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "themis_run_duration_seconds",
			Help:    "Duration of a whole command run.",
			Buckets: prometheus.DefBuckets,
		}, []string{"command"}),
	}
}

// WriteTextfile dumps every metric gathered by g to path in the text
// exposition format read by the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	return nil
}
