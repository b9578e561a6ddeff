// Package metrics turns decoded events into Prometheus counters. The
// decoder itself never touches a registry; callers own one of these.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"beast.watch/lib/beast"
	"beast.watch/lib/modes"
)

var (
	decodedByDF = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beastwatch_decoded_messages_total",
		Help: "Decoded Mode-S messages, by downlink format variant name.",
	}, []string{"variant"})

	unsupportedByReason = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beastwatch_unsupported_messages_total",
		Help: "Messages that collapsed to Unsupported, by payload length.",
	}, []string{"length"})

	resyncTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beastwatch_framer_resync_total",
		Help: "Number of times the BEAST framer dropped a leading byte to resynchronize.",
	})
)

// Observe records one decoded Message: an Unsupported payload counts
// against the unsupported counter keyed by its payload length; every
// other Data variant counts against the decoded counter keyed by its
// variant name.
func Observe(msg beast.Message) {
	switch d := msg.Data.(type) {
	case modes.Unsupported:
		unsupportedByReason.WithLabelValues(strconv.Itoa(len(d.Raw))).Inc()
	default:
		decodedByDF.WithLabelValues(variantName(msg.Data)).Inc()
	}
}

// ObserveResync records a framer resynchronization event.
func ObserveResync() {
	resyncTotal.Inc()
}

func variantName(d modes.Data) string {
	switch d.(type) {
	case modes.ACASSurveillanceReply:
		return "acas_surveillance_reply"
	case modes.AltitudeReply:
		return "altitude_reply"
	case modes.SurveillanceReply:
		return "surveillance_reply"
	case modes.AllCallReply:
		return "all_call_reply"
	case modes.ACASCoordinationReply:
		return "acas_coordination_reply"
	case modes.ExtendedSquitter:
		return "extended_squitter"
	default:
		return "unknown"
	}
}
