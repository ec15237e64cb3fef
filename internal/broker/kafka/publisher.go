// Package kafka publishes the crowdshipping integration events to Kafka.
// Events are emitted best effort after the owning transaction commits; the
// publisher logs every publish failure and the command handlers never roll
// back committed work over one.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"crowdship/internal/broker/messages"
	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/delivery"
)

// Topics names the destination topic per event family.
type Topics struct {
	AnnouncementEvents string
	DeliveryEvents     string
}

// messageWriter is the slice of kafka.Writer the publisher needs. Tests
// substitute a fake.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher implements ports.EventPublisher on a Kafka writer. Messages are
// keyed by aggregate id, so one aggregate's events stay ordered within a
// partition.
type Publisher struct {
	w      messageWriter
	topics Topics
	logger *slog.Logger
}

// NewPublisher creates a publisher writing to the given brokers.
func NewPublisher(brokers []string, topics Topics, logger *slog.Logger) *Publisher {
	return newPublisherWithWriter(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}, topics, logger)
}

func newPublisherWithWriter(w messageWriter, topics Topics, logger *slog.Logger) *Publisher {
	return &Publisher{w: w, topics: topics, logger: logger.With("component", "kafka_publisher")}
}

// PublishAnnouncementStatusChanged emits an event for an announcement
// transition.
func (p *Publisher) PublishAnnouncementStatusChanged(ctx context.Context, a *announcement.Announcement) error {
	event := messages.AnnouncementStatusChanged{
		AnnouncementID: a.ID().String(),
		RequesterID:    a.RequesterID().String(),
		Status:         a.Status().String(),
		Title:          a.Title(),
		PublishedAt:    a.PublishedAt(),
		OccurredAt:     time.Now().UTC(),
	}
	if delivererID := a.DelivererID(); delivererID != nil {
		id := delivererID.String()
		event.DelivererID = &id
	}

	return p.publish(ctx, p.topics.AnnouncementEvents, a.ID().String(), event)
}

// PublishDeliveryStatusChanged emits an event for a delivery transition.
func (p *Publisher) PublishDeliveryStatusChanged(ctx context.Context, d *delivery.Delivery) error {
	return p.publish(ctx, p.topics.DeliveryEvents, d.ID().String(), messages.DeliveryStatusChanged{
		DeliveryID:     d.ID().String(),
		AnnouncementID: d.AnnouncementID().String(),
		TrackingCode:   d.TrackingCode(),
		Status:         d.Status().String(),
		OccurredAt:     time.Now().UTC(),
	})
}

// PublishDeliveryConfirmed emits the closure event with the agreed price
// breakdown.
func (p *Publisher) PublishDeliveryConfirmed(ctx context.Context, d *delivery.Delivery) error {
	confirmedAt := time.Now().UTC()
	if at := d.ConfirmedAt(); at != nil {
		confirmedAt = *at
	}

	return p.publish(ctx, p.topics.DeliveryEvents, d.ID().String(), messages.DeliveryConfirmed{
		DeliveryID:     d.ID().String(),
		AnnouncementID: d.AnnouncementID().String(),
		RequesterID:    d.RequesterID().String(),
		CourierID:      d.CourierID().String(),
		TrackingCode:   d.TrackingCode(),
		PriceBase:      d.Price().Base(),
		CourierShare:   d.Price().CourierShare(),
		PlatformFee:    d.Price().PlatformFee(),
		ConfirmedAt:    confirmedAt,
	})
}

func (p *Publisher) publish(ctx context.Context, topic, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		p.logger.ErrorContext(ctx, "Event marshalling failed",
			"topic", topic, "key", key, "error", err)
		return errors.Wrap(err, "marshal event")
	}

	if err := p.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	}); err != nil {
		p.logger.ErrorContext(ctx, "Event publish failed",
			"topic", topic, "key", key, "error", err)
		return errors.Wrap(err, "kafka publish")
	}

	return nil
}
