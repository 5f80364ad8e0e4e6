package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("site-sync")

var ObjectsUploaded = must(meter.Int64Counter("objects_uploaded",
	metric.WithDescription("Total number of objects uploaded"),
))

var ObjectsDeleted = must(meter.Int64Counter("objects_deleted",
	metric.WithDescription("Total number of objects deleted"),
))

var UploadedBytes = must(meter.Int64Counter("uploaded_bytes",
	metric.WithDescription("Total number of bytes uploaded"),
	metric.WithUnit("By"),
))

var SyncErrors = must(meter.Int64Counter("sync_errors",
	metric.WithDescription("Total number of failed storage operations"),
))

var LocalFiles = must(meter.Int64Gauge("local_files",
	metric.WithDescription("Number of publishable files in the site"),
))

var RemoteObjects = must(meter.Int64Gauge("remote_objects",
	metric.WithDescription("Number of objects found under the namespace"),
))

var PlannedChanges = must(meter.Int64Gauge("planned_changes",
	metric.WithDescription("Number of paths to create, update or delete"),
))

var RunDuration = must(meter.Float64Histogram("run_duration",
	metric.WithDescription("Duration of a full publish run"),
	metric.WithUnit("s"),
))

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}

	return v
}
