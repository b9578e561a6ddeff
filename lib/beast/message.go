// Package beast implements the BEAST binary framing protocol: an
// incremental decoder over a growing byte buffer that carves out
// complete records, un-escapes doubled 0x1a bytes, and hands the payload
// to lib/modes for Mode-S decoding.
package beast

import (
	jsoniter "github.com/json-iterator/go"

	"beast.watch/lib/modes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Message is the top-level decoded value for one BEAST record.
type Message struct {
	Timestamp   uint64     `json:"timestamp"`
	SignalLevel float64    `json:"signal_level"`
	Data        modes.Data `json:"data"`
}

// MarshalJSON defers to an unexported alias to avoid infinite recursion
// through jsoniter's default struct encoding.
func (m Message) MarshalJSON() ([]byte, error) {
	type alias struct {
		Timestamp   uint64     `json:"timestamp"`
		SignalLevel float64    `json:"signal_level"`
		Data        modes.Data `json:"data"`
	}
	return json.Marshal(alias{Timestamp: m.Timestamp, SignalLevel: m.SignalLevel, Data: m.Data})
}
