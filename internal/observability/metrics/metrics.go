// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "subtitle_gen"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestsActive  prometheus.Gauge
	RequestsFailed  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Upload metrics
	UploadBytes prometheus.Counter

	// Transcription metrics
	TranscriptionLatency *prometheus.HistogramVec
	TranscriptionErrors  *prometheus.CounterVec

	// Core pipeline metrics
	CuesEmitted      prometheus.Counter
	SentencesDropped prometheus.Counter

	// Separation metrics
	SeparationTotal     prometheus.Counter
	SeparationFallbacks prometheus.Counter

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of subtitle requests started",
		}, []string{"endpoint"}),
		RequestsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requests_active",
			Help:      "Number of requests currently being processed",
		}),
		RequestsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_failed_total",
			Help:      "Total number of failed subtitle requests",
		}, []string{"endpoint"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "End-to-end request duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"endpoint"}),

		UploadBytes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_bytes_total",
			Help:      "Total bytes of uploaded media accepted",
		}),

		TranscriptionLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_latency_seconds",
			Help:      "Speech recognition latency in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"provider"}),
		TranscriptionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_errors_total",
			Help:      "Total number of speech recognition errors",
		}, []string{"provider", "error_type"}),

		CuesEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cues_emitted_total",
			Help:      "Total number of subtitle cues emitted",
		}),
		SentencesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentences_dropped_total",
			Help:      "Total number of sentences dropped for lack of word overlap",
		}),

		SeparationTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "separation_total",
			Help:      "Total number of vocal separation runs attempted",
		}),
		SeparationFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "separation_fallbacks_total",
			Help:      "Total number of separation failures that fell back to the original audio",
		}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordRequestStart records a new request being accepted.
func (m *Metrics) RecordRequestStart(endpoint string) {
	m.RequestsTotal.WithLabelValues(endpoint).Inc()
	m.RequestsActive.Inc()
}

// RecordRequestEnd records a request finishing.
func (m *Metrics) RecordRequestEnd(endpoint string, success bool, durationSeconds float64) {
	m.RequestsActive.Dec()
	m.RequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
	if !success {
		m.RequestsFailed.WithLabelValues(endpoint).Inc()
	}
}

// RecordUpload records accepted upload bytes.
func (m *Metrics) RecordUpload(bytes int64) {
	m.UploadBytes.Add(float64(bytes))
}

// RecordTranscription records a recognition run for a provider.
func (m *Metrics) RecordTranscription(provider string, latencySeconds float64) {
	m.TranscriptionLatency.WithLabelValues(provider).Observe(latencySeconds)
}

// RecordTranscriptionError records a recognition error.
func (m *Metrics) RecordTranscriptionError(provider, errorType string) {
	m.TranscriptionErrors.WithLabelValues(provider, errorType).Inc()
}

// RecordCues records emitted cues and silently dropped sentences.
func (m *Metrics) RecordCues(emitted, dropped int) {
	m.CuesEmitted.Add(float64(emitted))
	m.SentencesDropped.Add(float64(dropped))
}

// RecordSeparation records a separation attempt and whether it fell back.
func (m *Metrics) RecordSeparation(fellBack bool) {
	m.SeparationTotal.Inc()
	if fellBack {
		m.SeparationFallbacks.Inc()
	}
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
