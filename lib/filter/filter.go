// Package filter selects which decoded beast.Message values a consumer
// cares about, using functional options to match on ICAO address and
// Data variant.
package filter

import (
	"strconv"

	"github.com/rs/zerolog/log"

	"beast.watch/lib/beast"
	"beast.watch/lib/modes"
)

// Option configures a Filter.
type Option func(*Filter)

// Filter matches decoded messages against an optional ICAO allow-list
// and an optional set of accepted Data variant names.
type Filter struct {
	icaos   map[modes.ICAO]bool
	variant map[string]bool
}

// WithICAO restricts matches to the given 24-bit ICAO address.
func WithICAO(icao modes.ICAO) Option {
	return func(f *Filter) {
		if f.icaos == nil {
			f.icaos = make(map[modes.ICAO]bool)
		}
		f.icaos[icao] = true
	}
}

// WithICAOHex restricts matches to the given six-hex-digit ICAO address,
// e.g. "A6A6B7". Malformed input is logged and ignored, matching the
// teacher's tolerant CLI-flag parsing.
func WithICAOHex(hex string) Option {
	return func(f *Filter) {
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			log.Error().Err(err).Str("icao", hex).Msg("could not parse ICAO hex, ignoring filter")
			return
		}
		WithICAO(modes.ICAO(n))(f)
	}
}

// WithVariant restricts matches to messages whose Data is one of the
// named variants ("extended_squitter", "altitude_reply", etc, matching
// lib/metrics's variantName vocabulary).
func WithVariant(name string) Option {
	return func(f *Filter) {
		if f.variant == nil {
			f.variant = make(map[string]bool)
		}
		f.variant[name] = true
	}
}

// New builds a Filter with no restrictions unless Options narrow it.
func New(opts ...Option) *Filter {
	f := &Filter{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Matches reports whether msg passes every configured restriction.
func (f *Filter) Matches(msg beast.Message) bool {
	if len(f.icaos) > 0 && !f.icaos[icaoOf(msg.Data)] {
		return false
	}
	if len(f.variant) > 0 && !f.variant[variantOf(msg.Data)] {
		return false
	}
	return true
}

func icaoOf(d modes.Data) modes.ICAO {
	switch v := d.(type) {
	case modes.AllCallReply:
		return v.ICAO
	case modes.ExtendedSquitter:
		return v.ICAO
	default:
		return 0
	}
}

func variantOf(d modes.Data) string {
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
		return "unsupported"
	}
}
