// Package metrics exposes Prometheus collectors for the decoder pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SentencesTotal  prometheus.Counter
	MalformedTotal  prometheus.Counter
	IncompleteTotal prometheus.Counter
	DecodeErrTotal  prometheus.Counter
	EvictedTotal    prometheus.Counter
	DecodedTotal    *prometheus.CounterVec
	InFlight        prometheus.Gauge
}

// New registers the collectors on the default registry. Call once per
// process.
func New() *Metrics {
	return &Metrics{
		SentencesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aisrx_sentences_total",
			Help: "NMEA lines accepted by the tokenizer.",
		}),
		MalformedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aisrx_sentences_malformed_total",
			Help: "Lines rejected by the sentence grammar.",
		}),
		IncompleteTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aisrx_fragments_out_of_order_total",
			Help: "Fragments rejected for arriving out of order.",
		}),
		DecodeErrTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aisrx_payload_decode_errors_total",
			Help: "Complete payloads the bit decoder rejected.",
		}),
		EvictedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aisrx_reassembly_evictions_total",
			Help: "In-flight reassemblies evicted for capacity.",
		}),
		DecodedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aisrx_messages_decoded_total",
			Help: "Complete AIS messages decoded, by message type.",
		}, []string{"type"}),
		InFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "aisrx_reassembly_in_flight",
			Help: "Multi-fragment messages currently buffered.",
		}),
	}
}
