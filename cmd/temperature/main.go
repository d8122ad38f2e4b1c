// Command temperature is the CLI entrypoint: it parses flags, runs one
// scoring pass, and prints the report in the requested format.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"temperature"
	"temperature/internal/render"
	"temperature/internal/telemetry/metrics"
)

// setupTracing installs a process-wide TracerProvider so the executor's
// spans (internal/telemetry/tracing) are recorded rather than no-ops.
// No exporter is attached by default; a batcher can be added later
// without touching call sites, since they only ever reach the tracer
// through otel.Tracer().
func setupTracing() func(context.Context) error {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}

func main() {
	var (
		topic             string
		windowDays        int
		quick             bool
		premium           bool
		perSourceTimeout  time.Duration
		globalBudget      time.Duration
		format            string
		weightsFile       string
		metricsAddr       string
		healthAddr        string
		showStatus        bool
	)

	flag.StringVar(&topic, "topic", "", "Topic to score (required)")
	flag.IntVar(&windowDays, "window", 30, "Lookback window in days")
	flag.BoolVar(&quick, "quick", false, "Restrict to Tier 1 sources only")
	flag.BoolVar(&premium, "premium", false, "Allow Tier 3 sources in addition to Tier 1/2")
	flag.DurationVar(&perSourceTimeout, "per-source-timeout", 12*time.Second, "Per-source fetch timeout")
	flag.DurationVar(&globalBudget, "global-budget", 45*time.Second, "Overall fan-out budget")
	flag.StringVar(&format, "format", "narrative", "Output format: narrative|compact|json|context")
	flag.StringVar(&weightsFile, "weights", "", "Optional YAML weight-table override file")
	flag.StringVar(&metricsAddr, "metrics", "", "Expose Prometheus metrics on address (e.g. :9090)")
	flag.StringVar(&healthAddr, "health", "", "Expose a basic health endpoint on address (e.g. :9091)")
	flag.BoolVar(&showStatus, "status", false, "Print source status footer after the report")
	flag.Parse()

	if topic == "" {
		fmt.Fprintln(os.Stderr, "Usage: temperature -topic <topic> [flags]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := temperature.Defaults()
	cfg.Quick = quick
	cfg.Premium = premium
	cfg.PerSourceTimeout = perSourceTimeout
	cfg.GlobalBudget = globalBudget
	cfg.WeightsFile = weightsFile

	var metricsProvider *metrics.Provider
	if metricsAddr != "" {
		metricsProvider = metrics.New()
		cfg.MetricsEnabled = true
		cfg.MetricsProvider = metricsProvider
	}

	shutdownTracing := setupTracing()
	defer func() { _ = shutdownTracing(context.Background()) }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		log.Println("signal received; cancelling run")
		cancel()
	}()

	if metricsAddr != "" && metricsProvider != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsProvider.Handler())
		go func() {
			srv := &http.Server{Addr: metricsAddr, Handler: mux}
			go func() {
				<-ctx.Done()
				_ = srv.Shutdown(context.Background())
			}()
			log.Printf("metrics listening on %s", metricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics server: %v", err)
			}
		}()
	}

	if healthAddr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"status":"ok"}`)
		})
		go func() {
			srv := &http.Server{Addr: healthAddr, Handler: mux}
			go func() {
				<-ctx.Done()
				_ = srv.Shutdown(context.Background())
			}()
			log.Printf("health endpoint listening on %s", healthAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("health server: %v", err)
			}
		}()
	}

	runCtx, runCancel := context.WithTimeout(ctx, globalBudget+5*time.Second)
	defer runCancel()

	report, status, err := temperature.RunDetailed(runCtx, temperature.Request{Topic: topic, WindowDays: windowDays}, cfg)
	if err != nil {
		log.Fatalf("run: %v", err)
	}

	out, err := render.Render(report, render.Format(format))
	if err != nil {
		log.Fatalf("render: %v", err)
	}
	fmt.Println(out)

	if showStatus {
		fmt.Printf("\nSources discovered: %d, active: %d, failed: %d, timed out: %d, skipped: %d\n",
			status.TotalDiscovered, status.ActiveCount, len(status.Failed), len(status.TimedOut), len(status.Skipped))
	}
}
