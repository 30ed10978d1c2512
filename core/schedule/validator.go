package schedule

import (
	"time"

	"github.com/evlab/chargeprofile/core/model"
)

// Result is the verdict of validating a ChargeRequest. An invalid
// request carries a human-readable reason; it is a normal outcome, not
// an error.
type Result struct {
	Valid  bool
	Reason string
}

func valid() Result {
	return Result{Valid: true, Reason: "validation successful"}
}

func invalid(reason string) Result {
	return Result{Reason: reason}
}

// validate runs the well-formedness checks in a fixed order and stops
// at the first failure.
func validate(req model.ChargeRequest) Result {
	if _, err := time.Parse(time.RFC3339, req.StartingTime); err != nil {
		return invalid("starting time must be provided and valid")
	}
	if req.CarData == nil {
		return invalid("car data must be provided")
	}
	if !req.CarData.BatteryCapacity.IsPositive() {
		return invalid("battery capacity must be greater than zero")
	}
	if req.CarData.CurrentBatteryLevel.IsNegative() || req.CarData.CurrentBatteryLevel.GreaterThan(req.CarData.BatteryCapacity) {
		return invalid("current battery level must be within valid range")
	}
	if !req.CarData.ChargePower.IsPositive() {
		return invalid("charge power must be greater than zero")
	}
	if req.UserSettings == nil {
		return invalid("user settings must be provided")
	}
	if req.UserSettings.DesiredStateOfCharge < 0 || req.UserSettings.DesiredStateOfCharge > 100 {
		return invalid("desired state of charge must be between 0 and 100")
	}
	if req.UserSettings.DirectChargingPercentage < 0 || req.UserSettings.DirectChargingPercentage > 100 {
		return invalid("direct charging percentage must be between 0 and 100")
	}
	if len(req.UserSettings.Tariffs) == 0 {
		return invalid("at least one tariff must be provided")
	}
	for _, t := range req.UserSettings.Tariffs {
		if _, _, err := parseTimeOfDay(t.StartTime); err != nil {
			return invalid("tariff start times must be provided and valid")
		}
	}
	for _, t := range req.UserSettings.Tariffs {
		if _, _, err := parseTimeOfDay(t.EndTime); err != nil {
			return invalid("tariff end times must be provided and valid")
		}
	}
	return valid()
}
