// Package telemetry receives daily station readings over MQTT.
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/monai/airquality-dashboard/services/importer/internal/config"
	"github.com/monai/airquality-dashboard/services/importer/internal/models"
)

const qos = byte(1)

// Subscriber consumes Telemetry messages and hands valid ones to a handler
// as readings.
type Subscriber struct {
	client    mqtt.Client
	cfg       config.Config
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once

	handler func(models.Reading) error
}

// NewSubscriber configures a client for cfg.MQTTBroker. Nothing is dialled
// until Connect.
func NewSubscriber(cfg config.Config, logger *slog.Logger) *Subscriber {
	s := &Subscriber{
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort))
	opts.SetClientID(cfg.MQTTClientID)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	// Clean sessions drop subscriptions, so every (re)connect subscribes again.
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		s.setConnected(true)
		logger.Info("mqtt connected", "broker", cfg.MQTTBroker, "port", cfg.MQTTPort)
		s.subscribe(c)
	})

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.setConnected(false)
		logger.Warn("mqtt connection lost", "error", err)
	})

	s.client = mqtt.NewClient(opts)
	return s
}

// SetMessageHandler sets the function called for each valid reading.
func (s *Subscriber) SetMessageHandler(handler func(models.Reading) error) {
	s.mu.Lock()
	s.handler = handler
	s.mu.Unlock()
}

// Connect dials the broker and waits until the first connection succeeds,
// ctx is done or Disconnect is called.
func (s *Subscriber) Connect(ctx context.Context) error {
	select {
	case <-s.stopCh:
		return errors.New("subscriber stopped")
	default:
	}

	if s.IsConnected() {
		return nil
	}

	token := s.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			s.client.Disconnect(0)
			return ctx.Err()
		case <-s.stopCh:
			s.client.Disconnect(0)
			return errors.New("subscriber stopped")
		default:
		}
	}
}

func (s *Subscriber) subscribe(c mqtt.Client) {
	topic := s.cfg.MQTTTopic
	token := c.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		s.handleMessage(msg.Topic(), msg.Payload())
	})
	go func() {
		if !token.WaitTimeout(5 * time.Second) {
			s.logger.Error("mqtt subscribe timed out", "topic", topic)
			return
		}
		if err := token.Error(); err != nil {
			s.logger.Error("mqtt subscribe failed", "topic", topic, "error", err)
			return
		}
		s.logger.Info("subscribed to mqtt topic", "topic", topic, "qos", qos)
	}()
}

func (s *Subscriber) handleMessage(topic string, payload []byte) {
	s.logger.Debug("received mqtt message", "topic", topic, "size", len(payload))

	var t models.Telemetry
	if err := json.Unmarshal(payload, &t); err != nil {
		s.logger.Warn("failed to parse telemetry message",
			"topic", topic,
			"error", err,
			"payload", string(payload),
		)
		return
	}

	reading, err := ToReading(t)
	if err != nil {
		s.logger.Warn("invalid telemetry message",
			"topic", topic,
			"station", t.Station,
			"error", err,
		)
		return
	}

	s.mu.RLock()
	handler := s.handler
	s.mu.RUnlock()
	if handler == nil {
		return
	}

	if err := handler(reading); err != nil {
		s.logger.Error("message handler failed",
			"topic", topic,
			"station", reading.Station,
			"error", err,
		)
		return
	}
	s.logger.Debug("stored telemetry reading",
		"city", reading.City,
		"station", reading.Station,
		"pollutant", reading.Pollutant,
		"date", t.Date,
	)
}

// ToReading validates a telemetry message and converts it to a reading.
func ToReading(t models.Telemetry) (models.Reading, error) {
	r := models.Reading{
		City:      strings.TrimSpace(t.City),
		Station:   strings.TrimSpace(t.Station),
		Pollutant: strings.TrimSpace(t.Pollutant),
	}
	switch {
	case r.City == "":
		return r, errors.New("city is required")
	case r.Station == "":
		return r, errors.New("station is required")
	case r.Pollutant == "":
		return r, errors.New("pollutant is required")
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(t.Date))
	if err != nil {
		return r, fmt.Errorf("date must be YYYY-MM-DD: %q", t.Date)
	}
	r.Date = date

	if t.Value == nil {
		return r, errors.New("value is required")
	}
	v := *t.Value
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return r, fmt.Errorf("value out of range: %v", v)
	}
	r.Value = v

	return r, nil
}

// IsConnected returns whether the client is connected.
func (s *Subscriber) IsConnected() bool {
	s.mu.RLock()
	connected := s.connected
	s.mu.RUnlock()
	return connected && s.client.IsConnected()
}

// Disconnect stops the subscriber and closes the connection. Safe to call
// more than once.
func (s *Subscriber) Disconnect() {
	s.stopOnce.Do(func() { close(s.stopCh) })

	if s.IsConnected() {
		token := s.client.Unsubscribe(s.cfg.MQTTTopic)
		token.WaitTimeout(2 * time.Second)
	}
	s.client.Disconnect(250)

	s.setConnected(false)
	s.logger.Info("mqtt subscriber disconnected")
}

func (s *Subscriber) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}
