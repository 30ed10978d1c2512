package schedule

import (
	"github.com/evlab/chargeprofile/core/logger"
	"github.com/evlab/chargeprofile/core/model"
)

// Service is the seam the transport layer calls through. It holds no
// request state; every call is independent and side-effect free.
type Service struct {
	log logger.Logger
}

// NewService creates the planning facade.
func NewService(log logger.Logger) *Service {
	return &Service{log: log}
}

// Validate checks the request without computing anything. An invalid
// request is a normal outcome carried in the Result, never an error.
func (s *Service) Validate(req model.ChargeRequest) Result {
	res := validate(req)
	if !res.Valid {
		s.log.Debugf("request rejected: %s", res.Reason)
	}
	return res
}

// Build computes the charging plan for a request that already passed
// Validate. A returned error means the contract was broken upstream.
func (s *Service) Build(req model.ChargeRequest) (model.ChargeResponse, error) {
	resp, err := build(req)
	if err != nil {
		s.log.Errorf("build schedule: %v", err)
		return model.ChargeResponse{}, err
	}
	s.log.Debugw("schedule built", map[string]any{
		"intervals":  len(resp.ChargingSchedules),
		"percentage": resp.ActualChargingPercentageAtLeavingTime,
	})
	return resp, nil
}
