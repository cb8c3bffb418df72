package statsync

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/devpage/statsync/internal/events"
)

// AMQPPublisher broadcasts synced events on a RabbitMQ queue.
type AMQPPublisher struct {
	ch    *amqp.Channel
	queue string
}

func NewAMQPPublisher(ch *amqp.Channel, queue string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, queue: queue}
}

func (p *AMQPPublisher) PublishStatsSynced(ctx context.Context, ev events.StatsSynced) error {
	body, err := json.Marshal(events.StatsCommand{
		Kind:    events.StatsSyncedKind,
		Payload: &ev,
	})
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
}
