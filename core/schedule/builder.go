package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evlab/chargeprofile/core/model"
)

var hundred = decimal.NewFromInt(100)

// build computes the charging plan for a request that already passed
// validation. Any parse failure at this point is a contract violation
// and aborts the request.
func build(req model.ChargeRequest) (model.ChargeResponse, error) {
	start, err := time.Parse(time.RFC3339, req.StartingTime)
	if err != nil {
		return model.ChargeResponse{}, fmt.Errorf("parse starting time: %w", err)
	}
	start = start.UTC()
	leaving, err := resolveLeavingTime(req.UserSettings.LeavingTime, start)
	if err != nil {
		return model.ChargeResponse{}, fmt.Errorf("resolve leaving time: %w", err)
	}

	capacity := req.CarData.BatteryCapacity
	level := req.CarData.CurrentBatteryLevel
	power := req.CarData.ChargePower
	minDirectLevel := capacity.Mul(decimal.NewFromInt(int64(req.UserSettings.DirectChargingPercentage))).Div(hundred)
	desiredLevel := capacity.Mul(decimal.NewFromInt(int64(req.UserSettings.DesiredStateOfCharge))).Div(hundred)

	var intervals []model.ChargingSchedule
	cursor := start

	// Phase 1: charge straight away until the direct-charge threshold,
	// cut short at the deadline if it arrives first.
	if level.LessThan(minDirectLevel) {
		end := start.Add(hoursToDuration(minDirectLevel.Sub(level).Div(power)))
		if !end.Before(leaving) {
			end = leaving
			level = level.Add(power.Mul(hoursBetween(start, end)))
		} else {
			level = minDirectLevel
		}
		intervals = append(intervals, model.ChargingSchedule{StartTime: start, EndTime: end, IsCharging: true})
		cursor = end
	}

	// Phase 2: spread the remaining need over the cheapest windows.
	// Each tariff is consumed at most once per run and every window is
	// anchored to the Phase 1 cursor; tariffs are picked by price, not
	// chained in time.
	remaining := desiredLevel.Sub(level).Div(power)
	working := sortTariffs(req.UserSettings.Tariffs)
	for remaining.IsPositive() && len(working) > 0 {
		tariff := working[0]
		working = working[1:]

		winStart, winEnd, err := resolveTariffWindow(tariff.StartTime, tariff.EndTime, cursor)
		if err != nil {
			return model.ChargeResponse{}, fmt.Errorf("resolve tariff window: %w", err)
		}
		if !winEnd.After(winStart) {
			// Window fully elapsed before the cursor; nothing usable today.
			continue
		}
		usable := decimal.Min(remaining, hoursBetween(winStart, winEnd))
		end := winStart.Add(hoursToDuration(usable))
		if end.After(leaving) {
			end = leaving
			usable = hoursBetween(winStart, end)
		}
		if !usable.IsPositive() {
			continue
		}
		intervals = append(intervals, model.ChargingSchedule{StartTime: winStart, EndTime: end, IsCharging: true})
		level = level.Add(usable.Mul(power))
		remaining = remaining.Sub(usable)
	}

	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].StartTime.Before(intervals[j].StartTime)
	})

	return model.ChargeResponse{
		ActualChargingPercentageAtLeavingTime: int(level.Div(capacity).Mul(hundred).Round(0).IntPart()),
		ChargingSchedules:                     fillGaps(intervals, cursor, leaving),
	}, nil
}

// sortTariffs orders the working set by ascending price. Equal prices
// break on the earlier start time of day so repeated runs pick the
// same window.
func sortTariffs(tariffs []model.Tariff) []model.Tariff {
	sorted := make([]model.Tariff, len(tariffs))
	copy(sorted, tariffs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].EnergyPrice.Equal(sorted[j].EnergyPrice) {
			return sorted[i].EnergyPrice.LessThan(sorted[j].EnergyPrice)
		}
		return minutesOfDay(sorted[i].StartTime) < minutesOfDay(sorted[j].StartTime)
	})
	return sorted
}

func minutesOfDay(tod string) int {
	hour, minute, err := parseTimeOfDay(tod)
	if err != nil {
		return 0
	}
	return hour*60 + minute
}

// fillGaps inserts non-charging intervals into every uncovered span so
// the timeline runs without holes from the first interval through the
// leaving instant. Existing intervals are never moved or shortened.
func fillGaps(intervals []model.ChargingSchedule, cursor, leaving time.Time) []model.ChargingSchedule {
	filled := make([]model.ChargingSchedule, 0, 2*len(intervals)+1)
	current := cursor
	for _, iv := range intervals {
		if current.Before(iv.StartTime) {
			filled = append(filled, model.ChargingSchedule{StartTime: current, EndTime: iv.StartTime})
		}
		filled = append(filled, iv)
		current = iv.EndTime
	}
	if current.Before(leaving) {
		filled = append(filled, model.ChargingSchedule{StartTime: current, EndTime: leaving})
	}
	return filled
}

func hoursToDuration(hours decimal.Decimal) time.Duration {
	return time.Duration(hours.Mul(decimal.New(int64(time.Hour), 0)).IntPart())
}

func hoursBetween(from, to time.Time) decimal.Decimal {
	return decimal.New(to.Sub(from).Nanoseconds(), 0).Div(decimal.New(int64(time.Hour), 0))
}
