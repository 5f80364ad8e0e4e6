package config

var (
	// region Telemetry.

	TelemetryEnabled = NewKey("telemetry.enabled",
		WithDefaultValue(false),
		WithValidBool())

	// TelemetryMetricsExporter is one of "prometheus" (scrape endpoint served
	// for the duration of the run), "pushgateway" (pushed once the run ends)
	// or "stdout".
	TelemetryMetricsExporter = NewKey("telemetry.metrics.exporter",
		WithDefaultValue("pushgateway"),
		WithAllowedStrings([]string{"prometheus", "pushgateway", "stdout"}))

	TelemetryMetricsPrometheusAddress = NewKey("telemetry.metrics.prometheus.address",
		WithDefaultValue("127.0.0.1:9090"),
		WithValidNetHostPort())

	TelemetryMetricsPrometheusPath = NewKey("telemetry.metrics.prometheus.path",
		WithDefaultValue("/metrics"),
		WithValidURI())

	// TelemetryMetricsPushgatewayURL is the Pushgateway base URL.
	TelemetryMetricsPushgatewayURL = NewKey("telemetry.metrics.pushgateway.url",
		WithDefaultValue("http://127.0.0.1:9091"),
		WithValidEndpoint())

	TelemetryMetricsPushgatewayJob = NewKey("telemetry.metrics.pushgateway.job",
		WithDefaultValue("site-sync"),
		WithValidString())

	TelemetryMetricsStdoutInterval = NewKey("telemetry.metrics.stdout.interval",
		WithDefaultValue("5s"),
		WithValidDuration())

	// endregion.
)
