package rabbitmq_client

import (
	"encoding/json"
	"finsight/config"
	"finsight/types"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Publisher sends analysis events to a durable RabbitMQ queue.
type Publisher struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	queue      amqp.Queue
}

func NewPublisher(cfg config.RabbitMQConfig) (*Publisher, error) {
	zap.L().Sugar().Infof("RabbitMQ Server: %s:%s", cfg.Server, cfg.Port)

	conn, err := amqp.Dial(fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.User, cfg.Pass, cfg.Server, cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("rabbitmq initialization failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq - failed to open a channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.Queue, // Name of the queue
		true,      // Durable
		false,     // Delete when unused
		false,     // Exclusive
		false,     // No-wait
		nil,       // Arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq - failed to declare a queue: %w", err)
	}

	zap.L().Info("Connected to RabbitMQ.", zap.String("queue", q.Name))
	return &Publisher{connection: conn, channel: ch, queue: q}, nil
}

// publishing wraps event as a persistent JSON message.
func publishing(event types.AnalysisEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("error marshalling analysis event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    event.ID,
		Timestamp:    event.Timestamp,
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}, nil
}

func (p *Publisher) Publish(event types.AnalysisEvent) error {
	msg, err := publishing(event)
	if err != nil {
		return err
	}

	err = p.channel.Publish(
		"",           // Exchange (empty means default)
		p.queue.Name, // Routing key (queue name in this case)
		false,        // Mandatory
		false,        // Immediate
		msg)
	if err != nil {
		return fmt.Errorf("error publishing message to rabbitmq: %w", err)
	}
	return nil
}

func (p *Publisher) Close() {
	p.channel.Close()
	p.connection.Close()
}
