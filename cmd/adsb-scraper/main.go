// Command adsb-scraper polls a dump1090-style HTTP endpoint's stats.json
// and aircraft.json on independently configurable intervals and
// republishes their flat numeric fields as Prometheus gauges/counters.
package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"beast.watch/lib/logging"
	"beast.watch/lib/setup"
)

var (
	requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beastwatch_scraper_requests_total",
		Help: "HTTP requests made to the polled endpoint, by path.",
	}, []string{"path"})
	requestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beastwatch_scraper_request_errors_total",
		Help: "HTTP or decode errors for the polled endpoint, by path.",
	}, []string{"path"})
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "beastwatch_scraper_request_duration_seconds",
		Help: "Duration of requests to the polled endpoint, by path.",
	}, []string{"path"})

	aircraftMessages = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beastwatch_aircraft_messages_total",
		Help: "messages field from aircraft.json.",
	})
	aircraftAltBaro = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "beastwatch_aircraft_alt_baro_feet",
		Help: "Barometric altitude per observed aircraft.",
	}, []string{"hex", "flight"})
	aircraftGroundSpeed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "beastwatch_aircraft_ground_speed_knots",
		Help: "Ground speed per observed aircraft.",
	}, []string{"hex", "flight"})

	statsLocalAccepted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beastwatch_stats_local_accepted_total",
		Help: "local.accepted[0] from the latest stats.json period.",
	})
	statsLocalBad = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beastwatch_stats_local_bad_total",
		Help: "local.bad from the latest stats.json period.",
	})
	statsCPRGlobalOk = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beastwatch_stats_cpr_global_ok_total",
		Help: "cpr.global_ok from the latest stats.json period.",
	})

	receiverUp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beastwatch_receiver_up",
		Help: "1 if the last receiver.json poll succeeded, 0 otherwise.",
	})
)

// aircraftFile mirrors dump1090's aircraft.json shape, trimmed to the
// fields this scraper republishes.
type aircraftFile struct {
	Messages int64 `json:"messages"`
	Aircraft []struct {
		Hex     string      `json:"hex"`
		Flight  string      `json:"flight"`
		AltBaro interface{} `json:"alt_baro"`
		GS      *float64    `json:"gs"`
	} `json:"aircraft"`
}

// statsFile mirrors the subset of dump1090's stats.json this scraper
// reads from the "latest" period.
type statsFile struct {
	Latest struct {
		Local struct {
			Accepted []int64 `json:"accepted"`
			Bad      int64   `json:"bad"`
		} `json:"local"`
		CPR struct {
			GlobalOk int64 `json:"global_ok"`
		} `json:"cpr"`
	} `json:"latest"`
}

type receiverFile struct {
	Version string `json:"version"`
}

var prevAircraftLabels = struct {
	sync.Mutex
	labels []prometheus.Labels
}{}

func main() {
	app := &cli.App{
		Name:  "adsb-scraper",
		Usage: "poll a dump1090-style HTTP endpoint and export Prometheus metrics",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a TOML config file",
			},
		},
		Action: run,
	}
	logging.IncludeVerbosityFlags(app)
	logging.ConfigureForCli()

	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("adsb-scraper failed")
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logging.SetLoggingLevel(c)

	cfg, err := setup.LoadScraperConfig(c.String("config"))
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: cfg.RefreshTimeout}

	var wg sync.WaitGroup
	wg.Add(3)
	go pollLoop(ctx, &wg, client, cfg.Dump1090URL+"/aircraft.json", cfg.AircraftRefreshInterval, pollAircraft)
	go pollLoop(ctx, &wg, client, cfg.Dump1090URL+"/stats.json", cfg.StatsRefreshInterval, pollStats)
	go pollLoop(ctx, &wg, client, cfg.Dump1090URL+"/receiver.json", cfg.ReceiverRefreshInterval, pollReceiver)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: cfg.BindAddress, Handler: mux}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		log.Error().Err(err).Msg("metrics server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	wg.Wait()
	return nil
}

func pollLoop(ctx context.Context, wg *sync.WaitGroup, client *http.Client, url string, interval time.Duration, handle func(*http.Client, string)) {
	defer wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	handle(client, url)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			handle(client, url)
		}
	}
}

func fetchJSON(client *http.Client, url, label string, out interface{}) error {
	requests.WithLabelValues(label).Inc()
	timer := prometheus.NewTimer(requestDuration.WithLabelValues(label))
	defer timer.ObserveDuration()

	resp, err := client.Get(url)
	if err != nil {
		requestErrors.WithLabelValues(label).Inc()
		return errors.Wrap(err, "fetch "+label)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		requestErrors.WithLabelValues(label).Inc()
		return errors.Wrap(err, "read "+label)
	}
	if err := json.Unmarshal(body, out); err != nil {
		requestErrors.WithLabelValues(label).Inc()
		return errors.Wrap(err, "decode "+label)
	}
	return nil
}

func pollAircraft(client *http.Client, url string) {
	var file aircraftFile
	if err := fetchJSON(client, url, "aircraft", &file); err != nil {
		log.Error().Err(err).Msg("poll aircraft.json")
		return
	}
	aircraftMessages.Set(float64(file.Messages))

	prevAircraftLabels.Lock()
	defer prevAircraftLabels.Unlock()
	for _, labels := range prevAircraftLabels.labels {
		aircraftAltBaro.Delete(labels)
		aircraftGroundSpeed.Delete(labels)
	}
	prevAircraftLabels.labels = prevAircraftLabels.labels[:0]

	for _, ac := range file.Aircraft {
		labels := prometheus.Labels{"hex": ac.Hex, "flight": ac.Flight}
		if alt, ok := numericFromInterface(ac.AltBaro); ok {
			aircraftAltBaro.With(labels).Set(alt)
		}
		if ac.GS != nil {
			aircraftGroundSpeed.With(labels).Set(*ac.GS)
		}
		prevAircraftLabels.labels = append(prevAircraftLabels.labels, labels)
	}
}

func pollStats(client *http.Client, url string) {
	var file statsFile
	if err := fetchJSON(client, url, "stats", &file); err != nil {
		log.Error().Err(err).Msg("poll stats.json")
		return
	}
	if len(file.Latest.Local.Accepted) > 0 {
		statsLocalAccepted.Set(float64(file.Latest.Local.Accepted[0]))
	}
	statsLocalBad.Set(float64(file.Latest.Local.Bad))
	statsCPRGlobalOk.Set(float64(file.Latest.CPR.GlobalOk))
}

func pollReceiver(client *http.Client, url string) {
	var file receiverFile
	if err := fetchJSON(client, url, "receiver", &file); err != nil {
		log.Error().Err(err).Msg("poll receiver.json")
		receiverUp.Set(0)
		return
	}
	receiverUp.Set(1)
}

// numericFromInterface handles dump1090's alt_baro field, which is
// either a JSON number or the literal string "ground".
func numericFromInterface(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		if n == "ground" {
			return 0, true
		}
		return 0, false
	default:
		return 0, false
	}
}
