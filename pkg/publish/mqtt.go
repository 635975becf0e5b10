package publish

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	// DefaultServer is the broker used when none is configured.
	DefaultServer = "tcp://localhost:1883"
	// DefaultClientID identifies this publisher to the broker.
	DefaultClientID = "hx711-scale"
	// DefaultTopic is the topic readings are published to.
	DefaultTopic = "hx711/weight"
)

// MQTTConfig holds broker connection parameters.
type MQTTConfig struct {
	Server   string `json:"server"`
	Username string `json:"username"`
	Password string `json:"password"`
	ClientID string `json:"client_id"`
	Topic    string `json:"topic"`
}

// MQTT publishes readings to an MQTT broker as JSON.
type MQTT struct {
	client mqtt.Client
	topic  string
}

// NewMQTT connects to the broker described by cfg. Empty fields fall
// back to the package defaults.
func NewMQTT(cfg MQTTConfig) (*MQTT, error) {
	if cfg.Server == "" {
		cfg.Server = DefaultServer
	}
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultClientID
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}

	opts := mqtt.NewClientOptions().AddBroker(cfg.Server).SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	return &MQTT{client: client, topic: cfg.Topic}, nil
}

func (m *MQTT) Publish(r Reading) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	token := m.client.Publish(m.topic, 0, false, b)
	token.Wait()
	return token.Error()
}

func (m *MQTT) Close() error {
	if m.client != nil {
		m.client.Disconnect(250)
	}
	return nil
}
