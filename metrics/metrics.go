// Package metrics defines prometheus metric types and provides convenience
// methods to add accounting to various parts of the codec.
//
// When defining new operations or metrics, these are helpful values to track:
//  - things coming into or go out of the system: messages, attributes, dumps.
//  - the success or error status of any of the above.
//  - the distribution of message sizes.
package metrics

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DecodedMessages counts the messages decoded, per message family.
	//
	// Example usage:
	//   metrics.DecodedMessages.WithLabelValues("link").Inc()
	DecodedMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtnetlink_decoded_messages_total",
			Help: "The total number of rtnetlink messages decoded.",
		}, []string{"family"})

	// DecodeErrors counts the messages that failed to decode, per message
	// family.
	//
	// Example usage:
	//   metrics.DecodeErrors.WithLabelValues("neigh").Inc()
	DecodeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtnetlink_decode_errors_total",
			Help: "The total number of rtnetlink messages that failed to decode.",
		}, []string{"family"})

	// MessageSizeHistogram tracks the size in bytes of decoded messages,
	// headers included.
	MessageSizeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "rtnetlink_message_size_bytes",
			Help: "rtnetlink message size distribution",
			Buckets: []float64{
				16, 20, 25, 32, 40, 50, 63, 79,
				100, 125, 160, 200, 250, 320, 400, 500, 630, 790,
				1000, 1250, 1600, 2000, 2500, 3200, 4000, 5000, 6300, 7900,
				10000, 12500, 16000, 20000, 25000, 32000, 40000, 50000, 65536,
			},
		},
		[]string{"family"})
)

func init() {
	log.Println("Prometheus metrics in rtnetlink.metrics are registered.")
}
