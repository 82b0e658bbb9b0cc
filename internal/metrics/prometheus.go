// ABOUTME: Prometheus metrics for the player
// ABOUTME: Exposes pipeline counters from stream.Stats plus ingest and HTTP metrics
package metrics

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Sendspin/chunkstream/pkg/stream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chunkstream"

// StatsSource provides pipeline snapshots; *stream.Streamer satisfies it
type StatsSource interface {
	Stats() stream.Stats
}

// Metrics contains all Prometheus metrics for the player
type Metrics struct {
	registry *prometheus.Registry

	// Ingest metrics
	Connections prometheus.Gauge
	Messages    *prometheus.CounterVec
	ChunkBytes  prometheus.Histogram

	// HTTP metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates metrics on a private registry; source may be nil
func New(source StatsSource) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		Connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ingest_connections",
			Help:      "Currently open websocket ingest connections",
		}),
		Messages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_messages_total",
			Help:      "Websocket messages received by type",
		}, []string{"type"}),
		ChunkBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_chunk_bytes",
			Help:      "Size of received audio chunks",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8), // 256B to 4MiB
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status",
		}, []string{"method", "endpoint", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}

	if source != nil {
		registerStreamMetrics(factory, source)
	}

	return m
}

func registerStreamMetrics(factory promauto.Factory, source StatsSource) {
	counter := func(name, help string, value func(stream.Stats) int64) {
		factory.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(value(source.Stats())) })
	}
	gauge := func(name, help string, value func(stream.Stats) float64) {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 { return value(source.Stats()) })
	}

	counter("chunks_received_total", "Chunks passed to AddChunk",
		func(s stream.Stats) int64 { return s.ChunksReceived })
	counter("chunks_rejected_total", "Chunks dropped because the queue was full",
		func(s stream.Stats) int64 { return s.ChunksRejected })
	counter("chunks_decoded_total", "Chunks decoded by a container decoder",
		func(s stream.Stats) int64 { return s.ChunksDecoded })
	counter("chunks_fallback_total", "Chunks decoded as raw PCM",
		func(s stream.Stats) int64 { return s.ChunksFallback })
	counter("chunks_dropped_total", "Chunks that could not be decoded",
		func(s stream.Stats) int64 { return s.ChunksDropped })
	counter("callbacks_total", "Device callbacks served",
		func(s stream.Stats) int64 { return s.Callbacks })
	counter("underruns_total", "Device callbacks padded with silence",
		func(s stream.Stats) int64 { return s.Underruns() })
	counter("device_warnings_total", "Device callbacks reporting underflow or overflow",
		func(s stream.Stats) int64 { return s.DeviceWarnings })
	counter("samples_played_total", "Samples delivered to the device",
		func(s stream.Stats) int64 { return s.SamplesPlayed })

	gauge("queued_chunks", "Chunks waiting for the decode worker",
		func(s stream.Stats) float64 { return float64(s.QueuedChunks) })
	gauge("buffered_samples", "Decoded samples waiting for the device",
		func(s stream.Stats) float64 { return float64(s.BufferedSamples) })
	gauge("running", "1 while the output stream is running",
		func(s stream.Stats) float64 {
			if s.State == stream.Running {
				return 1
			}
			return 0
		})
}

// Registry returns the registry backing these metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordMessage counts one websocket message; size is observed for chunk messages
func (m *Metrics) RecordMessage(kind string, chunkSize int) {
	m.Messages.WithLabelValues(kind).Inc()
	if chunkSize > 0 {
		m.ChunkBytes.Observe(float64(chunkSize))
	}
}

// Wrap records request count and duration for handler
func (m *Metrics) Wrap(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(ww, r)

		m.HTTPRequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		m.HTTPRequests.WithLabelValues(r.Method, endpoint, fmt.Sprintf("%d", ww.statusCode)).Inc()
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the wrapper
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Unwrap exposes the underlying writer to http.ResponseController
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
