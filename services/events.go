package services

import (
	"finsight/clients/kafka"
	"finsight/clients/rabbitmq"
	"finsight/config"
	"finsight/types"
	"fmt"
)

// EventPublisher receives one event per analysis attempt.
type EventPublisher interface {
	Publish(event types.AnalysisEvent) error
	Close()
}

type noopPublisher struct{}

func (noopPublisher) Publish(types.AnalysisEvent) error { return nil }
func (noopPublisher) Close()                            {}

// NewEventPublisher connects the configured event backend.
func NewEventPublisher(cfg config.EventsConfig) (EventPublisher, error) {
	switch cfg.Backend {
	case "", "none":
		return noopPublisher{}, nil
	case "kafka":
		p, err := kafka_client.NewPublisher(cfg.Kafka)
		if err != nil {
			return nil, fmt.Errorf("error connecting kafka publisher: %w", err)
		}
		return p, nil
	case "rabbitmq":
		p, err := rabbitmq_client.NewPublisher(cfg.RabbitMQ)
		if err != nil {
			return nil, fmt.Errorf("error connecting rabbitmq publisher: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}
