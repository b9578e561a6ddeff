// Package sink implements concrete destinations that a decoded
// beast.Message can be written to. The core never depends on this
// package; cmd/ binaries wire it in.
package sink

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"beast.watch/lib/beast"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Sink receives one decoded Message at a time.
type Sink interface {
	Publish(msg beast.Message) error
	Close() error
}

// ConsoleSink writes each Message as a single line of JSON to the
// structured logger, the simplest possible sink and the one cmd/beastdump
// uses when no NATS URL is configured.
type ConsoleSink struct{}

func (ConsoleSink) Publish(msg beast.Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal message")
	}
	log.Info().RawJSON("message", b).Msg("decoded")
	return nil
}

func (ConsoleSink) Close() error { return nil }

// NATSSink publishes each Message as JSON to a fixed subject on a
// connected NATS server.
type NATSSink struct {
	conn    *nats.Conn
	subject string
}

// NewNATSSink dials url and returns a Sink publishing to subject.
func NewNATSSink(url, subject string) (*NATSSink, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, errors.Wrap(err, "connect to nats")
	}
	return &NATSSink{conn: conn, subject: subject}, nil
}

func (s *NATSSink) Publish(msg beast.Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal message")
	}
	if err := s.conn.Publish(s.subject, b); err != nil {
		return errors.Wrap(err, "publish to nats")
	}
	return nil
}

func (s *NATSSink) Close() error {
	s.conn.Close()
	return nil
}
