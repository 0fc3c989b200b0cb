// Package events publishes rental lifecycle events to RabbitMQ. Publishing is
// best-effort: callers log failures and carry on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/erazemk/popcornhub/internal/model"
)

// Queue names, one per event kind.
const (
	RentalCreated  = "rental.created"
	RentalReturned = "rental.returned"
)

// RentalEvent describes a rental that was created or returned.
type RentalEvent struct {
	Kind       string          `json:"kind"`
	RentalID   int64           `json:"rental_id"`
	UserID     int64           `json:"user_id"`
	FilmID     int64           `json:"film_id"`
	OwnerID    *int64          `json:"owner_id,omitempty"`
	Format     string          `json:"format,omitempty"`
	PriceCents int64           `json:"price_cents"`
	RentedAt   model.Timestamp `json:"rented_at"`
	ExpiresAt  model.Timestamp `json:"expires_at"`
}

// NewRentalEvent builds an event of kind from a rental record.
func NewRentalEvent(kind string, r *model.Rental) RentalEvent {
	return RentalEvent{
		Kind:       kind,
		RentalID:   r.ID,
		UserID:     r.UserID,
		FilmID:     r.FilmID,
		OwnerID:    r.OwnerID,
		Format:     string(r.Format),
		PriceCents: r.PriceCents,
		RentedAt:   r.RentedAt,
		ExpiresAt:  r.ExpiresAt,
	}
}

// Publisher sends rental events somewhere.
type Publisher interface {
	Publish(ctx context.Context, event RentalEvent) error
}

// Discard drops every event.
type Discard struct{}

// Publish does nothing.
func (Discard) Publish(context.Context, RentalEvent) error { return nil }

// DefaultTimeout bounds a whole publish, dial included.
const DefaultTimeout = 2 * time.Second

// AMQPPublisher publishes each event as a persistent JSON message on a
// durable queue named after the event kind. It dials per event.
type AMQPPublisher struct {
	URL     string
	Timeout time.Duration
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{URL: url, Timeout: DefaultTimeout}
}

// Publish sends event to the queue named by its kind.
func (p *AMQPPublisher) Publish(ctx context.Context, event RentalEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// The dial deadline also covers the AMQP handshake.
	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(timeout)})
	if err != nil {
		return fmt.Errorf("dialing broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("opening channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(event.Kind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring queue %s: %w", event.Kind, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", event.Kind, false, false, msg); err != nil {
		return fmt.Errorf("publishing to %s: %w", event.Kind, err)
	}
	return nil
}

// Emit publishes event and logs a failure instead of returning it.
func Emit(ctx context.Context, p Publisher, event RentalEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		slog.Warn("publishing rental event", "kind", event.Kind, "rental", event.RentalID, "error", err)
	}
}
