package model

import "time"

// ChargingSchedule is one interval of the output timeline.
type ChargingSchedule struct {
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	IsCharging bool      `json:"isCharging"`
}

// ChargeResponse is the result of a scheduling run. ChargingSchedules
// is sorted by start time, contiguous and covers exactly the span from
// the starting instant to the resolved leaving instant.
type ChargeResponse struct {
	// ActualChargingPercentageAtLeavingTime is the rounded SoC reached
	// at departure.
	ActualChargingPercentageAtLeavingTime int                `json:"actualChargingPercentageAtLeavingTime"`
	ChargingSchedules                     []ChargingSchedule `json:"chargingSchedules"`
}
