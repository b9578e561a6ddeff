// Command beastdump reads a BEAST byte stream from a file or stdin and
// prints one table row per decoded message, a Go-native rework of the
// original project's src/bin/dump_beast.rs developer tool.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"beast.watch/lib/beast"
	"beast.watch/lib/filter"
	"beast.watch/lib/logging"
	"beast.watch/lib/metrics"
	"beast.watch/lib/sink"
)

func main() {
	app := &cli.App{
		Name:  "beastdump",
		Usage: "decode a BEAST byte stream and print a table of messages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: "path to a file of raw BEAST bytes; defaults to stdin",
			},
			&cli.StringFlag{
				Name:  "icao",
				Usage: "only print messages from this six-hex-digit ICAO address",
			},
			&cli.StringFlag{
				Name:  "nats-url",
				Usage: "publish decoded messages to this NATS server instead of the console sink",
			},
			&cli.StringFlag{
				Name:  "nats-subject",
				Value: "beastwatch.messages",
				Usage: "NATS subject to publish decoded messages to",
			},
			&cli.BoolFlag{
				Name:  "publish",
				Usage: "also publish every decoded message to a sink (console by default, NATS if --nats-url is set)",
			},
		},
		Action: run,
	}
	logging.IncludeVerbosityFlags(app)
	logging.ConfigureForCli()

	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("beastdump failed")
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logging.SetLoggingLevel(c)

	var in io.Reader = os.Stdin
	if path := c.String("file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, "open input file")
		}
		defer f.Close()
		in = f
	}

	var opts []filter.Option
	if hex := c.String("icao"); hex != "" {
		opts = append(opts, filter.WithICAOHex(hex))
	}
	match := filter.New(opts...)

	var publish sink.Sink
	if c.Bool("publish") {
		if url := c.String("nats-url"); url != "" {
			s, err := sink.NewNATSSink(url, c.String("nats-subject"))
			if err != nil {
				return errors.Wrap(err, "connect publish sink")
			}
			publish = s
		} else {
			publish = sink.ConsoleSink{}
		}
		defer publish.Close()
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Timestamp", "Signal (dBFS)", "Variant", "Detail"})

	errCh := make(chan error, 1)
	msgCh := make(chan beast.Message)
	go runFramer(in, errCh, msgCh)

	for msg := range msgCh {
		metrics.Observe(msg)
		if !match.Matches(msg) {
			continue
		}
		if publish != nil {
			if err := publish.Publish(msg); err != nil {
				log.Error().Err(err).Msg("publish decoded message")
			}
		}
		table.Append([]string{
			fmt.Sprintf("%012x", msg.Timestamp),
			fmt.Sprintf("%.2f", msg.SignalLevel),
			fmt.Sprintf("%T", msg.Data),
			fmt.Sprintf("%+v", msg.Data),
		})
	}
	table.Render()
	return waitForError(errCh)
}

// runFramer drives lib/beast.Next over a growing read buffer: the only
// suspension point is the blocking Read call, never inside decoding.
func runFramer(r io.Reader, errCh chan<- error, out chan<- beast.Message) {
	defer close(out)
	reader := bufio.NewReader(r)
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)

	for {
		n, readErr := reader.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if readErr != nil && readErr != io.EOF {
			errCh <- errors.Wrap(readErr, "read source")
			return
		}

		for drained := false; !drained; {
			status, msg, consumed := beast.Next(buf)
			switch status {
			case beast.Ready:
				out <- msg
				buf = buf[consumed:]
			case beast.Resync:
				metrics.ObserveResync()
				buf = buf[consumed:]
			case beast.NeedMore:
				drained = true
			}
		}

		if readErr == io.EOF {
			errCh <- nil
			return
		}
	}
}

func waitForError(errCh <-chan error) error {
	// Mirrors the original project's wait_for_error: block for the first
	// error on the channel and exit accordingly.
	if err := <-errCh; err != nil {
		return err
	}
	return nil
}
