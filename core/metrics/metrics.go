package metrics

import "time"

// PlanEvent describes one handled scheduling request.
type PlanEvent struct {
	RequestID string
	// Outcome is "ok", "invalid" or "error".
	Outcome string
	// Percentage is the SoC reached at departure; meaningful only when
	// Outcome is "ok".
	Percentage int
	// Intervals is the length of the returned timeline.
	Intervals int
	// Duration is the time spent computing the plan.
	Duration time.Duration
	Time     time.Time
}

// MetricsSink records plan events for observability purposes.
type MetricsSink interface {
	RecordPlan(ev PlanEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlan(PlanEvent) error { return nil }
