// Package executor is the concurrent fan-out that runs every selected
// source in parallel, with a per-source timeout, a global budget, and
// per-source error classification.
package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"temperature/internal/httpclient"
	"temperature/internal/model"
	"temperature/internal/source"
	"temperature/internal/telemetry/logging"
	"temperature/internal/telemetry/metrics"
	"temperature/internal/telemetry/tracing"
)

// Budget configures the two timeout dimensions the executor enforces.
type Budget struct {
	PerSourceTimeout time.Duration // default 12s
	GlobalBudget     time.Duration // default 45s
}

// DefaultBudget matches the system's documented defaults.
func DefaultBudget() Budget {
	return Budget{PerSourceTimeout: 12 * time.Second, GlobalBudget: 45 * time.Second}
}

// Result is the outcome of running a single source, keyed by source
// name (or "<source>_<metric_name>" for multi-signal providers).
type Result struct {
	Name       string // storage key: source name, or "<source>_<metric_name>"
	Source     string // originating source name, for completion tracking
	Signal     *model.Signal
	Error      string
	ErrorType  string
	HTTPStatus int
	ElapsedMS  int
}

// Error classification values, per the executor's classification table.
const (
	ErrTypeSource    = "source"
	ErrTypeRateLimit = "rate_limit"
	ErrTypeAuth      = "auth"
	ErrTypeHTTP      = "http"
	ErrTypeTimeout   = "timeout"
	ErrTypeParse     = "parse"
	ErrTypeUnknown   = "unknown"
)

// ClassifyError maps an adapter error into one of the documented
// classification buckets.
func ClassifyError(err error) string {
	var srcErr *source.Error
	if errors.As(err, &srcErr) {
		return ErrTypeSource
	}

	var httpErr *httpclient.Error
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == 429:
			return ErrTypeRateLimit
		case httpErr.StatusCode == 401 || httpErr.StatusCode == 403:
			return ErrTypeAuth
		case httpErr.StatusCode > 0:
			return ErrTypeHTTP
		default:
			return ErrTypeTimeout
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTypeTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return ErrTypeTimeout
	}

	var jsonErr *json.SyntaxError
	var jsonUnmarshalErr *json.UnmarshalTypeError
	if errors.As(err, &jsonErr) || errors.As(err, &jsonUnmarshalErr) {
		return ErrTypeParse
	}

	return ErrTypeUnknown
}

// Run executes every selected source concurrently, bounded to
// min(len(selected), 10) workers, and returns (signals, allResults).
// signals contains only the successfully recorded Signal(s); allResults
// has one (or more, for multi-signal providers) entry per selected
// source, including ones that returned nothing, errored, or timed out.
func Run(ctx context.Context, selected map[string]source.Source, topic string, windowDays int, cfg source.Config, budget Budget, logger logging.Logger, m *metrics.Provider) ([]model.Signal, map[string]Result) {
	ctx, span := tracing.StartRun(ctx, topic)
	defer span.End()

	if len(selected) == 0 {
		return nil, map[string]Result{}
	}

	workers := len(selected)
	if workers > 10 {
		workers = 10
	}

	type job struct {
		name string
		src  source.Source
	}
	jobs := make(chan job, len(selected))
	for name, src := range selected {
		jobs <- job{name: name, src: src}
	}
	close(jobs)

	resultsCh := make(chan Result, len(selected)*2)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				runOne(ctx, j.name, j.src, topic, windowDays, cfg, budget, logger, m, resultsCh)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	signals := map[string]model.Signal{}
	allResults := map[string]Result{}
	received := map[string]bool{}

	timer := time.NewTimer(budget.GlobalBudget)
	defer timer.Stop()

loop:
	for {
		select {
		case res, ok := <-resultsCh:
			if !ok {
				break loop
			}
			allResults[res.Name] = res
			received[res.Source] = true
			if res.Signal != nil {
				signals[res.Name] = *res.Signal
			}
		case <-timer.C:
			for name := range selected {
				if !received[name] {
					allResults[name] = Result{
						Name:      name,
						Source:    name,
						Error:     "global timeout exceeded",
						ErrorType: ErrTypeTimeout,
						ElapsedMS: 0,
					}
				}
			}
			break loop
		}
	}

	out := make([]model.Signal, 0, len(signals))
	for _, s := range signals {
		out = append(out, s)
	}
	return out, allResults
}

// runOne executes a single source and emits its Result(s) onto out,
// handling the three result shapes: single Signal, list of Signals
// (multi-signal providers), or nothing.
func runOne(ctx context.Context, name string, src source.Source, topic string, windowDays int, cfg source.Config, budget Budget, logger logging.Logger, m *metrics.Provider, out chan<- Result) {
	start := time.Now()

	ctx, span := tracing.StartFetch(ctx, name)
	defer span.End()

	if m != nil {
		m.ExecutorInflight.Inc()
		defer m.ExecutorInflight.Dec()
	}

	perSourceCfg := cfg
	perSourceCfg.PerSourceTimeoutSeconds = int(budget.PerSourceTimeout.Seconds())

	fetchCtx, cancel := context.WithTimeout(ctx, budget.PerSourceTimeout)
	defer cancel()

	signals, err := src.Search(fetchCtx, topic, windowDays, perSourceCfg)
	elapsed := int(time.Since(start).Milliseconds())

	if m != nil {
		m.FetchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}

	if err != nil {
		errType := ClassifyError(err)
		if m != nil {
			m.SourceErrors.WithLabelValues(errType).Inc()
		}
		if logger != nil {
			logger.WarnCtx(ctx, "source failed", "source", name, "error_type", errType, "error", err.Error())
		}
		httpStatus := 0
		var httpErr *httpclient.Error
		if errors.As(err, &httpErr) {
			httpStatus = httpErr.StatusCode
		}
		out <- Result{Name: name, Source: name, Error: err.Error(), ErrorType: errType, HTTPStatus: httpStatus, ElapsedMS: elapsed}
		return
	}

	if logger != nil {
		logger.InfoCtx(ctx, "source completed", "source", name, "signals", len(signals), "elapsed_ms", elapsed)
	}

	if len(signals) == 0 {
		out <- Result{Name: name, Source: name, ElapsedMS: elapsed}
		return
	}

	for i := range signals {
		s := signals[i]
		key := name
		if len(signals) > 1 {
			key = fmt.Sprintf("%s_%s", name, s.MetricName)
		}
		out <- Result{Name: key, Source: name, Signal: &s, ElapsedMS: elapsed}
	}
}
