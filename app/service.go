package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/evlab/chargeprofile/api/chargeplan"
	"github.com/evlab/chargeprofile/config"
	"github.com/evlab/chargeprofile/core/schedule"
	"github.com/evlab/chargeprofile/infra/logger"
	"github.com/evlab/chargeprofile/infra/metrics"
	"github.com/evlab/chargeprofile/infra/mqtt"
)

// Service wires the planning facade, metrics sinks and the optional
// plan publisher behind the HTTP API.
type Service struct {
	cfg       *config.Config
	handler   *chargeplan.Handler
	publisher *mqtt.PlanPublisher
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	sink, err := metrics.NewSink(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	var publisher *mqtt.PlanPublisher
	var pub chargeplan.Publisher
	if cfg.MQTT.Enabled {
		publisher, err = mqtt.NewPlanPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("plan publisher: %w", err)
		}
		pub = publisher
	}

	svc := schedule.NewService(logger.New("schedule"))
	handler := chargeplan.NewHandler(svc, sink, pub, logger.New("api"))
	return &Service{cfg: cfg, handler: handler, publisher: publisher, log: logg}, nil
}

// Run starts the API server and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	mux := http.NewServeMux()
	mux.Handle("/api/charging-profile", s.handler)
	srv := &http.Server{Addr: s.cfg.HTTP.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("http shutdown: %v", err)
		}
	}()

	s.log.Infof("listening on %s", s.cfg.HTTP.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.publisher != nil {
		s.publisher.Close()
	}
	return nil
}
