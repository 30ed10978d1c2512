package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/evlab/chargeprofile/core/model"
	"github.com/evlab/chargeprofile/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Topic receives one message per computed plan.
	Topic  string `json:"topic"`
	QoS    byte   `json:"qos"`
	Retain bool   `json:"retain"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "chargeprofile"
	}
	if c.Topic == "" {
		c.Topic = "chargeprofile/plans"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("broker is required")
	}
	return nil
}

// planMessage is the wire envelope published for each computed plan.
type planMessage struct {
	RequestID string               `json:"requestId"`
	Response  model.ChargeResponse `json:"response"`
}

// PlanPublisher publishes computed charging plans so downstream
// controllers can pick them up.
type PlanPublisher struct {
	cli    paho.Client
	topic  string
	qos    byte
	retain bool
	log    logger.Logger
}

// NewPlanPublisher connects to the broker and returns a ready publisher.
func NewPlanPublisher(cfg Config) (*PlanPublisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)
	cli := paho.NewClient(opts)
	if tok := cli.Connect(); tok.Wait() && tok.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", tok.Error())
	}
	return &PlanPublisher{
		cli:    cli,
		topic:  cfg.Topic,
		qos:    cfg.QoS,
		retain: cfg.Retain,
		log:    logger.New("mqtt-publisher"),
	}, nil
}

// PublishPlan sends the computed plan as a JSON message.
func (p *PlanPublisher) PublishPlan(requestID string, resp model.ChargeResponse) error {
	payload, err := json.Marshal(planMessage{RequestID: requestID, Response: resp})
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	tok := p.cli.Publish(p.topic, p.qos, p.retain, payload)
	if tok.Wait() && tok.Error() != nil {
		return fmt.Errorf("publish plan: %w", tok.Error())
	}
	p.log.Debugf("published plan %s to %s", requestID, p.topic)
	return nil
}

// Close disconnects from the broker.
func (p *PlanPublisher) Close() {
	p.cli.Disconnect(250)
}
