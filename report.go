package sitesync

import (
	"context"

	"github.com/Altinity/site-sync/internal/plan"
	"github.com/Altinity/site-sync/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Report is the serializable form of a plan.
type Report struct {
	Summary plan.Summary `json:"summary" yaml:"summary"`
	Create  []string     `json:"create" yaml:"create"`
	Update  []string     `json:"update" yaml:"update"`
	Delete  []string     `json:"delete" yaml:"delete"`
}

func NewReport(p *plan.Plan) *Report {
	return &Report{
		Summary: p.Summary(),
		Create:  p.Creates(),
		Update:  p.Updates(),
		Delete:  p.Deletions(),
	}
}

func recordPlan(ctx context.Context, p *plan.Plan) {
	s := p.Summary()

	for action, n := range map[string]int{
		"create": s.Create,
		"update": s.Update,
		"delete": s.Delete,
	} {
		telemetry.PlannedChanges.Record(ctx, int64(n), metric.WithAttributes(
			attribute.String("action", action),
		))
	}
}
