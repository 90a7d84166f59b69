package kafka

import (
	"crypto/tls"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Config holds Kafka connection parameters.
type Config struct {
	ConsumerGroup string
	ClientID      string

	Brokers []string

	// FromBeginning makes a new consumer group start at the oldest offset.
	FromBeginning bool

	// TLS enables TLS for Kafka connections.
	TLS bool
}

func (c Config) tlsConfig() *tls.Config {
	if !c.TLS {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

func (c Config) dialer() *kafkago.Dialer {
	return &kafkago.Dialer{
		ClientID:  c.ClientID,
		Timeout:   10 * time.Second,
		DualStack: true,
		TLS:       c.tlsConfig(),
	}
}

func (c Config) transport() *kafkago.Transport {
	return &kafkago.Transport{
		ClientID: c.ClientID,
		TLS:      c.tlsConfig(),
	}
}
