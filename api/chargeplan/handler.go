package chargeplan

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/evlab/chargeprofile/core/logger"
	coremetrics "github.com/evlab/chargeprofile/core/metrics"
	"github.com/evlab/chargeprofile/core/model"
	"github.com/evlab/chargeprofile/core/schedule"
)

// Publisher forwards computed plans to interested parties, e.g. an
// MQTT topic consumed by the charger.
type Publisher interface {
	PublishPlan(requestID string, resp model.ChargeResponse) error
}

// Handler serves POST /api/charging-profile.
type Handler struct {
	svc  *schedule.Service
	sink coremetrics.MetricsSink
	pub  Publisher
	log  logger.Logger
}

// NewHandler wires the planning facade behind an HTTP endpoint. sink
// and pub may be nil.
func NewHandler(svc *schedule.Service, sink coremetrics.MetricsSink, pub Publisher, log logger.Logger) *Handler {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Handler{svc: svc, sink: sink, pub: pub, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)
	started := time.Now()

	var req model.ChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.record(requestID, "invalid", nil, started)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if res := h.svc.Validate(req); !res.Valid {
		h.record(requestID, "invalid", nil, started)
		http.Error(w, res.Reason, http.StatusBadRequest)
		return
	}

	resp, err := h.svc.Build(req)
	if err != nil {
		h.log.Errorf("request %s: %v", requestID, err)
		h.record(requestID, "error", nil, started)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.record(requestID, "ok", &resp, started)

	if h.pub != nil {
		if err := h.pub.PublishPlan(requestID, resp); err != nil {
			h.log.Warnf("publish plan %s: %v", requestID, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Errorf("encode response %s: %v", requestID, err)
	}
}

func (h *Handler) record(requestID, outcome string, resp *model.ChargeResponse, started time.Time) {
	ev := coremetrics.PlanEvent{
		RequestID: requestID,
		Outcome:   outcome,
		Duration:  time.Since(started),
		Time:      time.Now().UTC(),
	}
	if resp != nil {
		ev.Percentage = resp.ActualChargingPercentageAtLeavingTime
		ev.Intervals = len(resp.ChargingSchedules)
	}
	if err := h.sink.RecordPlan(ev); err != nil {
		h.log.Warnf("record plan %s: %v", requestID, err)
	}
}
