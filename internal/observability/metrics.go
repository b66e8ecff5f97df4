package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	commandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tat",
		Name:      "commands_total",
		Help:      "Chat commands handled, by verb and outcome.",
	}, []string{"verb", "outcome"})
	ledgerBuildSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tat",
		Name:      "ledger_build_seconds",
		Help:      "Time spent scanning a month of records into a ledger.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(commandsTotal, ledgerBuildSeconds)
}

// RecordCommand counts one handled command.
func RecordCommand(verb, outcome string) {
	commandsTotal.WithLabelValues(verb, outcome).Inc()
}

// ObserveLedgerBuild records how long a monthly ledger took to build.
func ObserveLedgerBuild(d time.Duration) {
	ledgerBuildSeconds.Observe(d.Seconds())
}

// ServeMetrics exposes the default registry on addr under /metrics until ctx
// is cancelled.
func ServeMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
