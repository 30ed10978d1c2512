package model

import "github.com/shopspring/decimal"

// ChargeRequest is the full input for one scheduling run. It is built
// once by the caller and never mutated by the planner.
type ChargeRequest struct {
	// StartingTime is an absolute ISO-8601 instant, e.g. "2024-06-30T08:00:00Z".
	StartingTime string        `json:"startingTime"`
	UserSettings *UserSettings `json:"userSettings"`
	CarData      *CarData      `json:"carData"`
}

// UserSettings holds the driver preferences for a scheduling run.
type UserSettings struct {
	// DesiredStateOfCharge is the target SoC at departure, in percent (0-100).
	DesiredStateOfCharge int `json:"desiredStateOfCharge"`
	// LeavingTime is the departure time of day in zero-padded "HH:MM".
	LeavingTime string `json:"leavingTime"`
	// DirectChargingPercentage is the SoC threshold below which the car
	// charges immediately, regardless of price (0-100).
	DirectChargingPercentage int `json:"directChargingPercentage"`
	// Tariffs is the set of daily price windows. Order is irrelevant.
	Tariffs []Tariff `json:"tariffs"`
}

// Tariff is a recurring daily price window. A window whose end time of
// day is at or before its start crosses midnight.
type Tariff struct {
	// StartTime and EndTime are times of day, "H:MM" or "HH:MM".
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	// EnergyPrice is the price per energy unit inside the window.
	EnergyPrice decimal.Decimal `json:"energyPrice"`
}

// CarData describes the vehicle battery and charger.
type CarData struct {
	// ChargePower is the charging rate in energy units per hour.
	ChargePower decimal.Decimal `json:"chargePower"`
	// BatteryCapacity is the total battery capacity; unit-consistent
	// with ChargePower.
	BatteryCapacity decimal.Decimal `json:"batteryCapacity"`
	// CurrentBatteryLevel is the level at StartingTime, in the same unit.
	CurrentBatteryLevel decimal.Decimal `json:"currentBatteryLevel"`
}
