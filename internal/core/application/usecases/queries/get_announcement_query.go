package queries

import (
	"errors"
	"time"

	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/guard"
)

var (
	ErrGetAnnouncementQueryIsNotConstructed = errors.New(
		"GetAnnouncementQuery must be created via NewGetAnnouncementQuery constructor",
	)
)

// GetAnnouncementQuery fetches a single announcement read model by id.
// Handling the query counts as a view: the handler bumps the view counter
// as a side effect.
type GetAnnouncementQuery struct {
	announcementID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetAnnouncementQuery creates a query for one announcement.
func NewGetAnnouncementQuery(announcementID kernel.UUID) (GetAnnouncementQuery, error) {
	if err := announcementID.Validate(); err != nil {
		return GetAnnouncementQuery{}, err
	}

	return GetAnnouncementQuery{
		announcementID: announcementID,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (q GetAnnouncementQuery) AnnouncementID() kernel.UUID { return q.announcementID }

// Validate ensures the query was created through the constructor.
func (q GetAnnouncementQuery) Validate() error {
	return q.guard.Validate(ErrGetAnnouncementQueryIsNotConstructed)
}

// GetAnnouncementQueryResponse is the full announcement read model,
// including the physical attributes the search summary omits.
type GetAnnouncementQueryResponse struct {
	ID                kernel.UUID
	RequesterID       kernel.UUID
	DelivererID       *kernel.UUID
	Title             string
	Description       string
	Type              announcement.Type
	Priority          announcement.Priority
	Status            announcement.Status
	PickupLine        string
	PickupPoint       *kernel.GeoPoint
	DropoffLine       string
	DropoffPoint      *kernel.GeoPoint
	Attributes        announcement.PhysicalAttributes
	PickupAt          *time.Time
	DeliveryAt        *time.Time
	SuggestedPrice    *float64
	FinalPrice        *float64
	Negotiable        bool
	PublishedAt       *time.Time
	ViewCount         int
	ApplicationsCount int
	Tags              []string
}
