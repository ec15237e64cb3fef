// Package messages defines the JSON payloads published to the broker.
// Consumers are external: notifications, analytics and payment release. The
// field set is the public contract; renames are breaking changes.
package messages

import "time"

// AnnouncementStatusChanged is emitted after every committed announcement
// transition.
type AnnouncementStatusChanged struct {
	AnnouncementID string     `json:"announcement_id"`
	RequesterID    string     `json:"requester_id"`
	DelivererID    *string    `json:"deliverer_id,omitempty"`
	Status         string     `json:"status"`
	Title          string     `json:"title"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	OccurredAt     time.Time  `json:"occurred_at"`
}

// DeliveryStatusChanged is emitted after every committed delivery
// transition.
type DeliveryStatusChanged struct {
	DeliveryID     string    `json:"delivery_id"`
	AnnouncementID string    `json:"announcement_id"`
	TrackingCode   string    `json:"tracking_code"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// DeliveryConfirmed is the closure event. Payment release keys off it, so it
// carries the agreed price breakdown alongside the parties.
type DeliveryConfirmed struct {
	DeliveryID     string    `json:"delivery_id"`
	AnnouncementID string    `json:"announcement_id"`
	RequesterID    string    `json:"requester_id"`
	CourierID      string    `json:"courier_id"`
	TrackingCode   string    `json:"tracking_code"`
	PriceBase      float64   `json:"price_base"`
	CourierShare   float64   `json:"courier_share"`
	PlatformFee    float64   `json:"platform_fee"`
	ConfirmedAt    time.Time `json:"confirmed_at"`
}
