package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Altinity/site-sync/config"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Shutdown publishes the final values and releases the exporter.
type Shutdown func(context.Context) error

// Start installs the global meter provider for the configured exporter. The
// returned Shutdown must be called once the run is over; batch exporters
// only publish at that point.
func Start(ctx context.Context) (Shutdown, error) {
	logger := log.With().Str("component", "telemetry").Logger()
	ctx = logger.WithContext(ctx)

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithProcess(),
		resource.WithOS(),
		resource.WithHost(),
		resource.WithAttributes(
			attribute.String("service", "site-sync"),
			attribute.String("version", config.Version),
		),
	)
	if err != nil {
		return nil, err
	}

	exporter := config.TelemetryMetricsExporter.String()
	registry := prom.NewRegistry()

	meterProvider, err := newMeterProvider(exporter, res, registry)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Error creating meter provider")
		return nil, err
	}
	otel.SetMeterProvider(meterProvider)

	var server *http.Server

	switch exporter {
	case "prometheus":
		server = newPrometheusServer(ctx, registry)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().
					Err(err).
					Msg("Error in telemetry server")
			}
		}()
	}

	return func(ctx context.Context) error {
		var errs []error

		switch exporter {
		case "pushgateway":
			errs = append(errs, pushMetrics(ctx, registry))
		case "prometheus":
			errs = append(errs, server.Shutdown(ctx))
		}

		if err := meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shut down meter provider: %w", err))
		}

		logger.Debug().Msg("Stopped telemetry")

		return errors.Join(errs...)
	}, nil
}

// newMeterProvider creates a meter provider for the given exporter. Both
// Prometheus flavours collect into registry.
func newMeterProvider(exporter string, res *resource.Resource, registry *prom.Registry) (*metric.MeterProvider, error) {
	switch exporter {
	case "prometheus", "pushgateway":
		reader, err := prometheus.New(
			prometheus.WithNamespace("site_sync"),
			prometheus.WithRegisterer(registry),
		)
		if err != nil {
			return nil, err
		}
		return metric.NewMeterProvider(metric.WithReader(reader), metric.WithResource(res)), nil
	case "stdout":
		exp, err := stdoutmetric.New()
		if err != nil {
			return nil, err
		}
		return metric.NewMeterProvider(
			metric.WithReader(
				metric.NewPeriodicReader(exp,
					metric.WithInterval(config.TelemetryMetricsStdoutInterval.Duration()))),
			metric.WithResource(res)), nil
	default:
		return nil, fmt.Errorf("unknown metrics exporter: %s", exporter)
	}
}
