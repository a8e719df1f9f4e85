package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// Progress is reported to observers on every stage transition.
type Progress struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	Stage        Stage     `json:"stage"`
	Percentage   int       `json:"percentage"`
	Message      string    `json:"message"`
}

// ProgressObserver receives progress updates. It is called synchronously on
// the submission goroutine and must not block for long.
type ProgressObserver func(Progress)

// MultiObserver fans an update out to every non-nil observer in order.
func MultiObserver(observers ...ProgressObserver) ProgressObserver {
	active := make([]ProgressObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			active = append(active, o)
		}
	}
	return func(p Progress) {
		for _, o := range active {
			o(p)
		}
	}
}

// ProgressPublisher exposes submission progress to other processes.
type ProgressPublisher interface {
	Publish(p Progress) error
	Close() error
}

type amqpProgressPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	mu       sync.Mutex
}

// NewAMQPProgressPublisher declares a durable topic exchange and publishes
// updates to it with routing key "submission.<id>".
func NewAMQPProgressPublisher(url, exchange string) (ProgressPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	log.Printf("✅ Progress publisher connected (exchange %s)", exchange)
	return &amqpProgressPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func ProgressRoutingKey(submissionID uuid.UUID) string {
	return fmt.Sprintf("submission.%s", submissionID)
}

// Publish implements ProgressPublisher.
func (p *amqpProgressPublisher) Publish(update Progress) error {
	body, err := json.Marshal(update)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.Publish(
		p.exchange,
		ProgressRoutingKey(update.SubmissionID),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *amqpProgressPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// PublishingObserver adapts a publisher into an observer. Publish failures
// are logged and never reach the pipeline.
func PublishingObserver(pub ProgressPublisher) ProgressObserver {
	if pub == nil {
		return nil
	}
	return func(update Progress) {
		if err := pub.Publish(update); err != nil {
			log.Printf("⚠️ Failed to publish progress for %s: %v", update.SubmissionID, err)
		}
	}
}
