package schedule

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evlab/chargeprofile/core/model"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

// overnightRequest is a full overnight stay: arrive at 08:00, leave at
// 07:00 the next day, empty 220 battery charged at 10 per hour.
func overnightRequest() model.ChargeRequest {
	return model.ChargeRequest{
		StartingTime: "2024-06-30T08:00:00Z",
		UserSettings: &model.UserSettings{
			DesiredStateOfCharge:     100,
			LeavingTime:              "07:00",
			DirectChargingPercentage: 20,
			Tariffs: []model.Tariff{
				{StartTime: "19:15", EndTime: "10:00", EnergyPrice: dec("0.22")},
				{StartTime: "13:15", EndTime: "19:15", EnergyPrice: dec("0.35")},
				{StartTime: "08:00", EndTime: "13:15", EnergyPrice: dec("0.25")},
			},
		},
		CarData: &model.CarData{
			ChargePower:         dec("10"),
			BatteryCapacity:     dec("220"),
			CurrentBatteryLevel: dec("0"),
		},
	}
}

func assertContiguous(t *testing.T, resp model.ChargeResponse, start, leaving time.Time) {
	t.Helper()
	sched := resp.ChargingSchedules
	if len(sched) == 0 {
		t.Fatalf("empty schedule")
	}
	if !sched[0].StartTime.Equal(start) {
		t.Fatalf("schedule starts at %v, want %v", sched[0].StartTime, start)
	}
	if !sched[len(sched)-1].EndTime.Equal(leaving) {
		t.Fatalf("schedule ends at %v, want %v", sched[len(sched)-1].EndTime, leaving)
	}
	for i, iv := range sched {
		if iv.EndTime.Before(iv.StartTime) {
			t.Fatalf("interval %d inverted: %v-%v", i, iv.StartTime, iv.EndTime)
		}
		if i > 0 && !sched[i-1].EndTime.Equal(iv.StartTime) {
			t.Fatalf("gap between interval %d and %d: %v != %v", i-1, i, sched[i-1].EndTime, iv.StartTime)
		}
	}
}

func TestBuildOvernightStay(t *testing.T) {
	resp, err := build(overnightRequest())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	start := time.Date(2024, 6, 30, 8, 0, 0, 0, time.UTC)
	leaving := time.Date(2024, 7, 1, 7, 0, 0, 0, time.UTC)
	assertContiguous(t, resp, start, leaving)

	if resp.ActualChargingPercentageAtLeavingTime != 100 {
		t.Fatalf("expected 100%%, got %d", resp.ActualChargingPercentageAtLeavingTime)
	}

	at := func(month time.Month, day, hour, minute int) time.Time {
		return time.Date(2024, month, day, hour, minute, 0, 0, time.UTC)
	}
	want := []model.ChargingSchedule{
		// Direct charge to the 20% threshold: 44 units at 10/h is 4.4h.
		{StartTime: at(6, 30, 8, 0), EndTime: at(6, 30, 12, 24), IsCharging: true},
		// 0.25 window, clamped to the direct-charge cursor.
		{StartTime: at(6, 30, 12, 24), EndTime: at(6, 30, 13, 15), IsCharging: true},
		// 0.35 window, cut off once the need is covered.
		{StartTime: at(6, 30, 13, 15), EndTime: at(6, 30, 18, 15), IsCharging: true},
		{StartTime: at(6, 30, 18, 15), EndTime: at(6, 30, 19, 15), IsCharging: false},
		// Cheapest 0.22 window, clamped at the departure.
		{StartTime: at(6, 30, 19, 15), EndTime: at(7, 1, 7, 0), IsCharging: true},
	}
	if !reflect.DeepEqual(resp.ChargingSchedules, want) {
		t.Fatalf("unexpected schedule:\n got %v\nwant %v", resp.ChargingSchedules, want)
	}
}

func TestBuildIdempotent(t *testing.T) {
	req := overnightRequest()
	first, err := build(req)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	second, err := build(req)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("build is not deterministic")
	}
}

func TestBuildNoChargingNeeded(t *testing.T) {
	req := overnightRequest()
	req.CarData.CurrentBatteryLevel = dec("110")
	req.UserSettings.DesiredStateOfCharge = 50
	req.UserSettings.DirectChargingPercentage = 20

	resp, err := build(req)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	start := time.Date(2024, 6, 30, 8, 0, 0, 0, time.UTC)
	leaving := time.Date(2024, 7, 1, 7, 0, 0, 0, time.UTC)
	assertContiguous(t, resp, start, leaving)
	if len(resp.ChargingSchedules) != 1 || resp.ChargingSchedules[0].IsCharging {
		t.Fatalf("expected a single non-charging interval, got %v", resp.ChargingSchedules)
	}
	if resp.ActualChargingPercentageAtLeavingTime != 50 {
		t.Fatalf("expected 50%%, got %d", resp.ActualChargingPercentageAtLeavingTime)
	}
}

func TestBuildDirectChargeReachesThresholdExactly(t *testing.T) {
	req := overnightRequest()
	req.UserSettings.DesiredStateOfCharge = 20

	resp, err := build(req)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if resp.ActualChargingPercentageAtLeavingTime != 20 {
		t.Fatalf("expected 20%%, got %d", resp.ActualChargingPercentageAtLeavingTime)
	}
	first := resp.ChargingSchedules[0]
	if !first.IsCharging || !first.EndTime.Equal(time.Date(2024, 6, 30, 12, 24, 0, 0, time.UTC)) {
		t.Fatalf("unexpected direct charge interval %v", first)
	}
	for _, iv := range resp.ChargingSchedules[1:] {
		if iv.IsCharging {
			t.Fatalf("unexpected charging interval after threshold reached: %v", iv)
		}
	}
}

func TestBuildDirectChargeCutShortByDeadline(t *testing.T) {
	req := overnightRequest()
	req.UserSettings.LeavingTime = "09:00"
	req.UserSettings.DirectChargingPercentage = 50
	req.CarData.BatteryCapacity = dec("100")

	resp, err := build(req)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	start := time.Date(2024, 6, 30, 8, 0, 0, 0, time.UTC)
	leaving := time.Date(2024, 6, 30, 9, 0, 0, 0, time.UTC)
	assertContiguous(t, resp, start, leaving)
	// One hour at 10/h into a 100 battery: 10%, threshold not reached.
	if resp.ActualChargingPercentageAtLeavingTime != 10 {
		t.Fatalf("expected 10%%, got %d", resp.ActualChargingPercentageAtLeavingTime)
	}
	for _, iv := range resp.ChargingSchedules {
		if iv.EndTime.After(leaving) {
			t.Fatalf("interval extends past departure: %v", iv)
		}
	}
}

func TestBuildInsufficientTariffTime(t *testing.T) {
	req := model.ChargeRequest{
		StartingTime: "2024-06-30T08:00:00Z",
		UserSettings: &model.UserSettings{
			DesiredStateOfCharge:     100,
			LeavingTime:              "10:00",
			DirectChargingPercentage: 0,
			Tariffs: []model.Tariff{
				{StartTime: "08:00", EndTime: "09:00", EnergyPrice: dec("0.20")},
			},
		},
		CarData: &model.CarData{
			ChargePower:         dec("10"),
			BatteryCapacity:     dec("220"),
			CurrentBatteryLevel: dec("0"),
		},
	}
	resp, err := build(req)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	start := time.Date(2024, 6, 30, 8, 0, 0, 0, time.UTC)
	leaving := time.Date(2024, 6, 30, 10, 0, 0, 0, time.UTC)
	assertContiguous(t, resp, start, leaving)
	if resp.ActualChargingPercentageAtLeavingTime >= 100 {
		t.Fatalf("expected partial charge, got %d%%", resp.ActualChargingPercentageAtLeavingTime)
	}
	// 10 units into a 220 battery rounds to 5%.
	if resp.ActualChargingPercentageAtLeavingTime != 5 {
		t.Fatalf("expected 5%%, got %d", resp.ActualChargingPercentageAtLeavingTime)
	}
}

func TestBuildSkipsFullyElapsedWindow(t *testing.T) {
	req := model.ChargeRequest{
		StartingTime: "2024-06-30T12:00:00Z",
		UserSettings: &model.UserSettings{
			DesiredStateOfCharge:     100,
			LeavingTime:              "14:00",
			DirectChargingPercentage: 0,
			Tariffs: []model.Tariff{
				{StartTime: "08:00", EndTime: "10:00", EnergyPrice: dec("0.10")},
			},
		},
		CarData: &model.CarData{
			ChargePower:         dec("10"),
			BatteryCapacity:     dec("220"),
			CurrentBatteryLevel: dec("0"),
		},
	}
	resp, err := build(req)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	start := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	leaving := time.Date(2024, 6, 30, 14, 0, 0, 0, time.UTC)
	assertContiguous(t, resp, start, leaving)
	if len(resp.ChargingSchedules) != 1 || resp.ChargingSchedules[0].IsCharging {
		t.Fatalf("expected a single non-charging interval, got %v", resp.ChargingSchedules)
	}
	if resp.ActualChargingPercentageAtLeavingTime != 0 {
		t.Fatalf("expected 0%%, got %d", resp.ActualChargingPercentageAtLeavingTime)
	}
}

func TestBuildEqualPricesPickEarlierWindow(t *testing.T) {
	req := model.ChargeRequest{
		StartingTime: "2024-06-30T08:00:00Z",
		UserSettings: &model.UserSettings{
			DesiredStateOfCharge:     10,
			LeavingTime:              "20:00",
			DirectChargingPercentage: 0,
			Tariffs: []model.Tariff{
				{StartTime: "15:00", EndTime: "18:00", EnergyPrice: dec("0.30")},
				{StartTime: "09:00", EndTime: "12:00", EnergyPrice: dec("0.30")},
			},
		},
		CarData: &model.CarData{
			ChargePower:         dec("10"),
			BatteryCapacity:     dec("100"),
			CurrentBatteryLevel: dec("0"),
		},
	}
	resp, err := build(req)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var charging []model.ChargingSchedule
	for _, iv := range resp.ChargingSchedules {
		if iv.IsCharging {
			charging = append(charging, iv)
		}
	}
	if len(charging) != 1 {
		t.Fatalf("expected one charging interval, got %v", charging)
	}
	if want := time.Date(2024, 6, 30, 9, 0, 0, 0, time.UTC); !charging[0].StartTime.Equal(want) {
		t.Fatalf("expected the earlier equal-priced window at %v, got %v", want, charging[0].StartTime)
	}
}

func TestBuildRejectsMalformedLeavingTime(t *testing.T) {
	req := overnightRequest()
	req.UserSettings.LeavingTime = "7:00"
	_, err := build(req)
	if err == nil {
		t.Fatalf("expected error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}
