package telemetry

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Altinity/site-sync/config"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog"
)

// newPrometheusServer builds the scrape endpoint served while the run lasts.
func newPrometheusServer(ctx context.Context, registry *prom.Registry) *http.Server {
	logger := zerolog.Ctx(ctx)

	address := config.TelemetryMetricsPrometheusAddress.String()
	path := config.TelemetryMetricsPrometheusPath.String()

	logger.Info().Str("address", address).Str("path", path).Msg("Starting Prometheus server")

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &http.Server{
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// pushMetrics sends the collected metrics to a Prometheus Pushgateway, replacing
// the previous values of the job.
func pushMetrics(ctx context.Context, registry *prom.Registry) error {
	url := config.TelemetryMetricsPushgatewayURL.String()
	job := config.TelemetryMetricsPushgatewayJob.String()

	zerolog.Ctx(ctx).Debug().
		Str("url", url).
		Str("job", job).
		Msg("Pushing metrics")

	if err := pushTo(ctx, url, job, registry); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}

	return nil
}

func pushTo(ctx context.Context, url string, job string, gatherer prom.Gatherer) error {
	return push.New(url, job).
		Gatherer(gatherer).
		Client(&http.Client{Timeout: 10 * time.Second}).
		PushContext(ctx)
}
