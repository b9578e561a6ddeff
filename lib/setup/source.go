// Package setup parses the `beast://` source URIs this service accepts
// (listen, fetch, or file-replay) into Source descriptors, the way the
// teacher's lib/setup parses its avr|beast|sbs1 URL family — trimmed to
// the single scheme this decoder core understands.
package setup

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const (
	Fetch  = "fetch"
	Listen = "listen"
	File   = "file"
	RefLat = "ref-lat"
	RefLon = "ref-lon"
	Tag    = "tag"
)

var prometheusInputBeastFrames = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "beastwatch_input_frames_total",
	Help: "The total number of BEAST frames received, per source session.",
}, []string{"session"})

// Kind distinguishes how a Source's bytes are obtained.
type Kind int

const (
	KindFetch Kind = iota
	KindListen
	KindFile
)

// Source describes one configured byte-stream origin. Opening the
// connection/file is a collaborator's job; Source only carries what
// was configured.
type Source struct {
	SessionID uuid.UUID
	Tag       string
	Kind      Kind
	Host      string
	Port      string
	Path      string
	Delay     bool

	HasReference bool
	Reference    orb.Point
}

// FrameReceived increments this source's input-frame counter, labelled
// by the source's session ID. No binary in cmd/ calls it.
func (s Source) FrameReceived() {
	prometheusInputBeastFrames.WithLabelValues(s.SessionID.String()).Inc()
}

func IncludeSourceFlags(app *cli.App) {
	app.Flags = append(app.Flags,
		&cli.StringSliceFlag{
			Name:    Fetch,
			Usage:   "A BEAST source in URL form: beast://host:port?tag=MYTAG&refLat=-31.0&refLon=115.0",
			EnvVars: []string{"SOURCE"},
		},
		&cli.StringSliceFlag{
			Name:    Listen,
			Usage:   "A BEAST source to listen for in URL form: beast://host:port?tag=MYTAG",
			EnvVars: []string{"LISTEN"},
		},
		&cli.StringSliceFlag{
			Name:    File,
			Usage:   "A BEAST source to replay from a file: beast:///path/to/file?tag=MYTAG&delay=no",
			EnvVars: []string{"FILE"},
		},
		&cli.Float64Flag{
			Name:    RefLat,
			Usage:   "The default reference latitude, used when a source URL omits refLat.",
			EnvVars: []string{"REF_LAT", "LAT"},
		},
		&cli.Float64Flag{
			Name:    RefLon,
			Usage:   "The default reference longitude, used when a source URL omits refLon.",
			EnvVars: []string{"REF_LON", "LONG"},
		},
		&cli.StringFlag{
			Name:    Tag,
			Usage:   "A default value included in output for sources whose URL omits tag=.",
			EnvVars: []string{"TAG"},
		},
	)
}

// HandleSourceFlags parses every --fetch/--listen/--file flag value into
// a Source. It stops at the first malformed URL.
func HandleSourceFlags(c *cli.Context) ([]Source, error) {
	defaultTag := c.String(Tag)
	refLat := c.Float64(RefLat)
	refLon := c.Float64(RefLon)

	out := make([]Source, 0)
	for _, u := range c.StringSlice(Fetch) {
		s, err := parseSource(u, KindFetch, defaultTag, refLat, refLon)
		if err != nil {
			return nil, fmt.Errorf("fetch source %q: %w", u, err)
		}
		out = append(out, s)
	}
	for _, u := range c.StringSlice(Listen) {
		s, err := parseSource(u, KindListen, defaultTag, refLat, refLon)
		if err != nil {
			return nil, fmt.Errorf("listen source %q: %w", u, err)
		}
		out = append(out, s)
	}
	for _, u := range c.StringSlice(File) {
		s, err := parseSource(u, KindFile, defaultTag, refLat, refLon)
		if err != nil {
			return nil, fmt.Errorf("file source %q: %w", u, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func parseSource(rawURL string, kind Kind, defaultTag string, defaultRefLat, defaultRefLon float64) (Source, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Source{}, err
	}
	if strings.ToLower(parsed.Scheme) != "beast" {
		return Source{}, fmt.Errorf("unknown scheme %q, expected beast", parsed.Scheme)
	}

	s := Source{
		SessionID: uuid.New(),
		Tag:       getTag(parsed, defaultTag),
		Kind:      kind,
	}

	switch kind {
	case KindFile:
		s.Path = parsed.Path
		s.Delay = queryBool(parsed, "delay", false)
	default:
		s.Host = parsed.Hostname()
		s.Port = parsed.Port()
	}

	refLat := getRef(parsed, "refLat", defaultRefLat)
	refLon := getRef(parsed, "refLon", defaultRefLon)
	if refLat != 0 || refLon != 0 {
		s.HasReference = true
		s.Reference = orb.Point{refLon, refLat}
	} else {
		log.Debug().Str("url", rawURL).Msg("no reference lat/lon supplied")
	}

	return s, nil
}

func getTag(parsedURL *url.URL, defaultTag string) string {
	if parsedURL.Query().Has("tag") {
		return parsedURL.Query().Get("tag")
	}
	return defaultTag
}

func getRef(parsedURL *url.URL, what string, defaultRef float64) float64 {
	if parsedURL == nil {
		return defaultRef
	}
	if parsedURL.Query().Has(what) {
		f, err := strconv.ParseFloat(parsedURL.Query().Get(what), 64)
		if err == nil {
			return f
		}
		log.Error().Err(err).Str("query_param", what).Msg("could not parse reference value")
	}
	return defaultRef
}

func queryBool(parsedURL *url.URL, what string, defaultValue bool) bool {
	if !parsedURL.Query().Has(what) {
		return defaultValue
	}
	switch strings.ToLower(parsedURL.Query().Get(what)) {
	case "", "no", "false", "0":
		return false
	default:
		return true
	}
}
