package progress

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/jverbeke/pitchplan/core/logger"
)

var errPublishFailed = errors.New("publish failed")

// Config defines the connection parameters for the MQTT snapshot publisher.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
	UseTLS      bool   `json:"use_tls"`
	ClientCert  string `json:"client_cert"`
	ClientKey   string `json:"client_key"`
	CABundle    string `json:"ca_bundle"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "pitchplan"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "pitchplan/jobs"
	}
}

// Validate checks mandatory fields when the publisher is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("progress: broker is required")
	}
	return nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// newMQTTClient builds the underlying Paho client. Overridable in tests.
var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// MQTTPublisher publishes snapshots over MQTT. Intermediate snapshots go to
// <prefix>/<job>/progress; the final one also goes to <prefix>/<job>/result,
// retained so late subscribers still see the outcome.
type MQTTPublisher struct {
	cli    pahoClient
	prefix string
	qos    byte
	log    logger.Logger
}

// NewMQTTPublisher connects to the broker described by cfg.
func NewMQTTPublisher(cfg Config, log logger.Logger) (*MQTTPublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("mqtt connection lost: %v", err)
	}
	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &MQTTPublisher{cli: cli, prefix: cfg.TopicPrefix, qos: cfg.QoS, log: log}, nil
}

// Publish implements Publisher.
func (p *MQTTPublisher) Publish(s Snapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/%s/progress", p.prefix, s.JobID)
	if token := p.cli.Publish(topic, p.qos, false, payload); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	if s.Final {
		topic = fmt.Sprintf("%s/%s/result", p.prefix, s.JobID)
		if token := p.cli.Publish(topic, p.qos, true, payload); token.Wait() && token.Error() != nil {
			return token.Error()
		}
	}
	p.log.Debugf("published snapshot %d for job %s", s.Seq, s.JobID)
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() error {
	p.cli.Disconnect(250)
	return nil
}
