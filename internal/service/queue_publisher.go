// Package service holds side effects that accompany successful writes.
// Publishing failures are logged and returned so callers can ignore
// them without interrupting the request.
package service

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    "github.com/iliyamo/stagedoor/internal/queue"
)

// Publisher sends domain events to RabbitMQ.  It dials per message,
// which is plenty for the rate at which shows are created.
type Publisher struct {
    url string
    log *zap.Logger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, log *zap.Logger) *Publisher {
    return &Publisher{url: url, log: log.With(zap.String("component", "publisher"))}
}

// PublishShowScheduled publishes ev to the show.scheduled queue as a
// persistent JSON message.
func (p *Publisher) PublishShowScheduled(ctx context.Context, ev queue.ShowScheduledEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        p.log.Error("marshal event failed", zap.Error(err))
        return err
    }
    return p.publish(ctx, queue.ShowQueueName, body)
}

func (p *Publisher) publish(ctx context.Context, queueName string, body []byte) error {
    log := p.log.With(zap.String("queue", queueName))

    conn, err := amqp.Dial(p.url)
    if err != nil {
        log.Warn("dial failed", zap.Error(err))
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Warn("channel open failed", zap.Error(err))
        return err
    }
    defer func() { _ = ch.Close() }()

    // Idempotent; durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
        log.Warn("queue declare failed", zap.Error(err))
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
        log.Warn("publish failed", zap.Error(err))
        return err
    }
    log.Debug("event published", zap.Int("bytes", len(body)))
    return nil
}
