package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactive/pkg/instrument"
	"github.com/vango-dev/reactive/pkg/reactive"
)

// benchProfile describes one benchmark graph shape.
type benchProfile struct {
	Name    string
	Cells   int
	Effects int
	Reads   int // cells read per effect
	Writes  int
}

var benchProfiles = map[string]benchProfile{
	"fast": {
		Name:    "fast",
		Cells:   16,
		Effects: 32,
		Reads:   2,
		Writes:  50_000,
	},
	"standard": {
		Name:    "standard",
		Cells:   128,
		Effects: 512,
		Reads:   4,
		Writes:  200_000,
	},
	"wide": {
		Name:    "wide",
		Cells:   8,
		Effects: 4096,
		Reads:   1,
		Writes:  20_000,
	},
}

func benchCmd() *cobra.Command {
	var (
		profileName string
		listen      string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure propagation throughput over configurable graphs",
		Long: `Bench builds a graph of signals and effects, then measures write
throughput including full synchronous propagation.

With --listen, a diagnostics endpoint serves Prometheus metrics for the
engine at /metrics until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, ok := benchProfiles[profileName]
			if !ok {
				return fmt.Errorf("unknown profile %q (have: fast, standard, wide)", profileName)
			}
			return runBench(profile, listen)
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "fast", "benchmark profile: fast, standard, wide")
	cmd.Flags().StringVar(&listen, "listen", "", "serve /metrics and /healthz on this address until interrupted")

	return cmd
}

func runBench(profile benchProfile, listen string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	registry := prometheus.NewRegistry()
	metrics := instrument.NewMetrics(
		instrument.WithRegistry(registry),
		instrument.WithConstLabels(prometheus.Labels{"profile": profile.Name}),
	)
	eng := reactive.New(
		reactive.WithLogger(logger),
		reactive.WithObserver(metrics),
	)

	var srv *http.Server
	if listen != "" {
		r := chi.NewRouter()
		r.Use(middleware.Recoverer)
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})

		srv = &http.Server{Addr: listen, Handler: r}
		go func() {
			info("serving diagnostics on http://%s", listen)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("diagnostics server", "error", err)
			}
		}()
	}

	info("profile %s: %d cells, %d effects x %d reads, %d writes",
		profile.Name, profile.Cells, profile.Effects, profile.Reads, profile.Writes)

	cells := make([]*reactive.Signal[int], profile.Cells)
	for i := range cells {
		s, err := reactive.NewSignal(eng, 0)
		if err != nil {
			return err
		}
		cells[i] = s
	}

	var replays int
	for i := 0; i < profile.Effects; i++ {
		reads := make([]*reactive.Signal[int], profile.Reads)
		for j := range reads {
			reads[j] = cells[(i+j)%len(cells)]
		}
		if _, err := reactive.RunEffect(eng, func() reactive.Cleanup {
			for _, s := range reads {
				_ = s.Get()
			}
			replays++
			return nil
		}); err != nil {
			return err
		}
	}

	start := time.Now()
	for i := 0; i < profile.Writes; i++ {
		if err := cells[i%len(cells)].Set(i + 1); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	writesPerSec := float64(profile.Writes) / elapsed.Seconds()
	success("%d writes in %s (%.0f writes/s, %d effect replays)",
		profile.Writes, elapsed.Round(time.Millisecond), writesPerSec, replays)

	if srv != nil {
		info("press Ctrl-C to stop the diagnostics endpoint")
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
	return nil
}
