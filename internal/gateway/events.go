package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golf-booking/pkg/utils"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type EventType string

const (
	EventReservationCreated   EventType = "reservation.created"
	EventReservationConfirmed EventType = "reservation.confirmed"
	EventReservationCancelled EventType = "reservation.cancelled"
	EventReservationExpired   EventType = "reservation.expired"
)

type ReservationEvent struct {
	Type          EventType `json:"type"`
	ReservationID uuid.UUID `json:"reservation_id"`
	UserID        uuid.UUID `json:"user_id"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	TotalPrice    int64     `json:"total_price,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventPublisher announces reservation lifecycle changes. Callers treat a
// failed publish as non-fatal: the database row is the source of truth.
type EventPublisher interface {
	Publish(ctx context.Context, event ReservationEvent) error
}

type RabbitPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	log      *zap.Logger
}

// NewRabbitPublisher dials the broker and declares a durable topic exchange.
func NewRabbitPublisher(config utils.RabbitMQConfig, log *zap.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(config.URL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		config.Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	return &RabbitPublisher{
		conn:     conn,
		ch:       ch,
		exchange: config.Exchange,
		log:      log.With(zap.String("gateway", "rabbitmq")),
	}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, event ReservationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    event.OccurredAt,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, msg); err != nil {
		p.log.Warn("Failed to publish reservation event",
			zap.Error(err),
			zap.String("type", string(event.Type)),
			zap.String("reservation_id", event.ReservationID.String()),
		)
		return fmt.Errorf("rabbitmq publish: %w", err)
	}

	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// LogPublisher writes events to the log when no broker is configured.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.With(zap.String("gateway", "events"))}
}

func (p *LogPublisher) Publish(_ context.Context, event ReservationEvent) error {
	p.log.Info("Reservation event",
		zap.String("type", string(event.Type)),
		zap.String("reservation_id", event.ReservationID.String()),
		zap.String("status", event.Status),
		zap.String("reason", event.Reason),
	)
	return nil
}
