// Package noop provides an event publisher that drops everything. Used when
// no broker is configured, typically in local runs and tests.
package noop

import (
	"context"

	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/delivery"
)

// Publisher implements ports.EventPublisher by discarding events.
type Publisher struct{}

// NewPublisher creates a discarding publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

func (*Publisher) PublishAnnouncementStatusChanged(context.Context, *announcement.Announcement) error {
	return nil
}

func (*Publisher) PublishDeliveryStatusChanged(context.Context, *delivery.Delivery) error {
	return nil
}

func (*Publisher) PublishDeliveryConfirmed(context.Context, *delivery.Delivery) error {
	return nil
}
