package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/evlab/chargeprofile/core/metrics"
)

func TestPromSink_RecordPlan(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	events := []coremetrics.PlanEvent{
		{RequestID: "r1", Outcome: "ok", Percentage: 85, Intervals: 4, Duration: 3 * time.Millisecond},
		{RequestID: "r2", Outcome: "invalid", Duration: time.Millisecond},
		{RequestID: "r3", Outcome: "ok", Percentage: 100, Intervals: 5, Duration: 2 * time.Millisecond},
	}
	for _, ev := range events {
		if err := sink.RecordPlan(ev); err != nil {
			t.Fatalf("record error: %v", err)
		}
	}

	expected := `
# HELP charge_plans_total Total number of handled scheduling requests
# TYPE charge_plans_total counter
charge_plans_total{outcome="invalid"} 1
charge_plans_total{outcome="ok"} 2
`
	if err := testutil.CollectAndCompare(sink.plans, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}

	if c := testutil.CollectAndCount(sink.duration); c == 0 {
		t.Errorf("duration not recorded")
	}

	// The gauge tracks the last successful plan only.
	expectedSoC := `
# HELP charge_plan_soc_percent State of charge at departure of the last computed plan
# TYPE charge_plan_soc_percent gauge
charge_plan_soc_percent 100
`
	if err := testutil.CollectAndCompare(sink.soc, strings.NewReader(expectedSoC)); err != nil {
		t.Errorf("unexpected gauge: %v", err)
	}
}

func TestPromSink_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second registration should reuse collectors: %v", err)
	}
}
