package kafka_client

import (
	"encoding/json"
	"finsight/config"
	"finsight/types"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

// Publisher produces analysis events to a Kafka topic.
type Publisher struct {
	producer *kafka.Producer
	topic    string
}

func NewPublisher(cfg config.KafkaConfig) (*Publisher, error) {
	if cfg.BootstrapServers == "" {
		return nil, fmt.Errorf("kafka bootstrap servers not configured")
	}

	zap.L().Info("KAFKA_BOOTSTRAPSERVERS: ", zap.String("uri", cfg.BootstrapServers))

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": cfg.BootstrapServers,
		"client.id":         cfg.ClientID,
		"acks":              "all",
	})
	if err != nil {
		return nil, fmt.Errorf("kafka producer initialization failed: %w", err)
	}

	// Delivery report handler for produced messages
	go func() {
		for e := range producer.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					zap.L().Error("Kafka delivery failed", zap.Error(ev.TopicPartition.Error))
				} else {
					zap.L().Debug("Delivered analysis event", zap.String("topic", *ev.TopicPartition.Topic))
				}
			}
		}
	}()

	return &Publisher{producer: producer, topic: cfg.Topic}, nil
}

// message builds the record for event, keyed by the event id.
func (p *Publisher) message(event types.AnalysisEvent) (*kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("error marshalling analysis event: %w", err)
	}
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.ID),
		Value:          value,
	}, nil
}

func (p *Publisher) Publish(event types.AnalysisEvent) error {
	msg, err := p.message(event)
	if err != nil {
		return err
	}

	if err := p.producer.Produce(msg, nil); err != nil {
		return fmt.Errorf("error sending message to kafka: %w", err)
	}
	return nil
}

// Close flushes pending messages for up to 5 seconds.
func (p *Publisher) Close() {
	if remaining := p.producer.Flush(5000); remaining > 0 {
		zap.L().Warn("Kafka messages not delivered before shutdown", zap.Int("remaining", remaining))
	}
	p.producer.Close()
}
