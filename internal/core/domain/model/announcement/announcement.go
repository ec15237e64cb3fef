package announcement

import (
	"errors"
	"fmt"
	"time"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
	"crowdship/internal/pkg/guard"
)

var (
	// ErrAnnouncementIsNotConstructed is returned when an Announcement was not
	// created through NewAnnouncement or RestoreAnnouncement.
	ErrAnnouncementIsNotConstructed = errors.New(
		"Announcement must be created via NewAnnouncement or RestoreAnnouncement")

	// ErrDeliveryDateBeforePickup is returned when the requested delivery window
	// ends before it starts.
	ErrDeliveryDateBeforePickup = errs.NewValueIsInvalidErrorWithCause("deliveryAt",
		errors.New("delivery date must not precede pickup date"))
)

// Announcement is a requester's posted delivery request and the aggregate root
// of the matching engine. It owns the announcement state machine, the
// ownership rules, and the invariant that a courier is bound exactly when the
// status is ASSIGNED, IN_PROGRESS or COMPLETED.
//
// The view and application counters are maintained by the storage layer with
// atomic single-statement increments; the aggregate only carries the values
// read from storage and never mutates them in application code.
type Announcement struct {
	id          kernel.UUID
	requesterID kernel.UUID
	delivererID *kernel.UUID

	title       string
	description string
	aType       Type
	priority    Priority

	pickup  Address
	dropoff Address
	attrs   PhysicalAttributes

	pickupAt   *time.Time
	deliveryAt *time.Time

	suggestedPrice float64
	finalPrice     *float64
	negotiable     bool

	status      Status
	publishedAt *time.Time

	viewCount         int
	applicationsCount int

	tags []string

	guard guard.ConstructorGuard
}

// NewAnnouncement creates an announcement in PENDING status with both
// counters at zero. It validates the title, type, priority, price and the
// scheduling window (delivery date must not precede pickup date when both are
// present).
func NewAnnouncement(
	id kernel.UUID,
	requesterID kernel.UUID,
	title string,
	description string,
	aType Type,
	priority Priority,
	pickup Address,
	dropoff Address,
	attrs PhysicalAttributes,
	pickupAt *time.Time,
	deliveryAt *time.Time,
	suggestedPrice float64,
	negotiable bool,
	tags []string,
) (*Announcement, error) {
	a := &Announcement{
		status:     Pending,
		negotiable: negotiable,
		tags:       tags,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setRequesterID(requesterID),
		a.setTitle(title),
		a.setType(aType),
		a.setPriority(priority),
		a.setAddresses(pickup, dropoff),
		a.setAttributes(attrs),
		a.setSchedule(pickupAt, deliveryAt),
		a.setSuggestedPrice(suggestedPrice),
	); err != nil {
		return nil, err
	}
	a.description = description

	return a, nil
}

// RestoreAnnouncement reconstructs an announcement from persistence without
// re-running creation rules. The stored status must still be valid.
func RestoreAnnouncement(
	id kernel.UUID,
	requesterID kernel.UUID,
	delivererID *kernel.UUID,
	title string,
	description string,
	aType Type,
	priority Priority,
	pickup Address,
	dropoff Address,
	attrs PhysicalAttributes,
	pickupAt *time.Time,
	deliveryAt *time.Time,
	suggestedPrice float64,
	finalPrice *float64,
	negotiable bool,
	status Status,
	publishedAt *time.Time,
	viewCount int,
	applicationsCount int,
	tags []string,
) (*Announcement, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := status.validateCanHaveDeliverer(delivererID != nil); err != nil {
		return nil, err
	}

	return &Announcement{
		id:                id,
		requesterID:       requesterID,
		delivererID:       delivererID,
		title:             title,
		description:       description,
		aType:             aType,
		priority:          priority,
		pickup:            pickup,
		dropoff:           dropoff,
		attrs:             attrs,
		pickupAt:          pickupAt,
		deliveryAt:        deliveryAt,
		suggestedPrice:    suggestedPrice,
		finalPrice:        finalPrice,
		negotiable:        negotiable,
		status:            status,
		publishedAt:       publishedAt,
		viewCount:         viewCount,
		applicationsCount: applicationsCount,
		tags:              tags,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// validateCanHaveDeliverer enforces the invariant that delivererID is set
// exactly when the status binds a courier.
func (s Status) validateCanHaveDeliverer(hasDeliverer bool) error {
	bindsCourier := s == Assigned || s == InProgress || s == Completed
	if hasDeliverer && !bindsCourier {
		return errs.NewValueIsInvalidErrorWithCause("delivererId",
			fmt.Errorf("%s announcements must not have a deliverer", s))
	}
	if !hasDeliverer && bindsCourier {
		return errs.NewValueIsInvalidErrorWithCause("delivererId",
			fmt.Errorf("%s announcements must have a deliverer", s))
	}
	return nil
}

// Validate ensures the aggregate was built via a constructor.
func (a *Announcement) Validate() error {
	if a == nil {
		return ErrAnnouncementIsNotConstructed
	}
	return a.guard.Validate(ErrAnnouncementIsNotConstructed)
}

func (a *Announcement) ID() kernel.UUID          { return a.id }
func (a *Announcement) RequesterID() kernel.UUID { return a.requesterID }

// DelivererID returns the assigned courier, or nil before assignment.
func (a *Announcement) DelivererID() *kernel.UUID { return a.delivererID }

func (a *Announcement) Title() string             { return a.title }
func (a *Announcement) Description() string       { return a.description }
func (a *Announcement) Type() Type                { return a.aType }
func (a *Announcement) Priority() Priority        { return a.priority }
func (a *Announcement) Pickup() Address           { return a.pickup }
func (a *Announcement) Dropoff() Address          { return a.dropoff }
func (a *Announcement) Attributes() PhysicalAttributes { return a.attrs }
func (a *Announcement) PickupAt() *time.Time      { return a.pickupAt }
func (a *Announcement) DeliveryAt() *time.Time    { return a.deliveryAt }
func (a *Announcement) SuggestedPrice() float64   { return a.suggestedPrice }

// FinalPrice returns the accepted application's price, or nil before assignment.
func (a *Announcement) FinalPrice() *float64 { return a.finalPrice }

func (a *Announcement) Negotiable() bool        { return a.negotiable }
func (a *Announcement) Status() Status          { return a.status }
func (a *Announcement) PublishedAt() *time.Time { return a.publishedAt }
func (a *Announcement) ViewCount() int          { return a.viewCount }
func (a *Announcement) ApplicationsCount() int  { return a.applicationsCount }
func (a *Announcement) Tags() []string          { return a.tags }

// IsOwnedBy reports whether the given actor is the owning requester.
func (a *Announcement) IsOwnedBy(actorID kernel.UUID) bool {
	return a.requesterID.IsEqual(actorID)
}

// IsEqual compares announcements by identifier.
func (a *Announcement) IsEqual(other *Announcement) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// Publish transitions DRAFT or PENDING to PUBLISHED and stamps publishedAt.
func (a *Announcement) Publish(now time.Time) error {
	newStatus, err := a.status.TransitionTo(Published)
	if err != nil {
		return err
	}

	a.status = newStatus
	a.publishedAt = &now
	return nil
}

// UpdatePatch carries the optional fields of an announcement update. Nil
// pointers leave the current value untouched.
type UpdatePatch struct {
	Title          *string
	Description    *string
	Priority       *Priority
	SuggestedPrice *float64
	PickupAt       *time.Time
	DeliveryAt     *time.Time
	Tags           []string
}

// ApplyPatch mutates the announcement with the patch fields. It is allowed
// only while the status is DRAFT or PENDING; once published or assigned the
// announcement is frozen and the edge fails as an invalid state transition.
func (a *Announcement) ApplyPatch(patch UpdatePatch) error {
	if !a.status.IsModifiable() {
		return errs.NewInvalidStateTransitionErrorWithCause("announcement",
			a.status.String(), a.status.String(),
			errors.New("announcement can only be updated while DRAFT or PENDING"))
	}

	if patch.Title != nil {
		if err := a.setTitle(*patch.Title); err != nil {
			return err
		}
	}
	if patch.Description != nil {
		a.description = *patch.Description
	}
	if patch.Priority != nil {
		if err := a.setPriority(*patch.Priority); err != nil {
			return err
		}
	}
	if patch.SuggestedPrice != nil {
		if err := a.setSuggestedPrice(*patch.SuggestedPrice); err != nil {
			return err
		}
	}

	pickupAt, deliveryAt := a.pickupAt, a.deliveryAt
	if patch.PickupAt != nil {
		pickupAt = patch.PickupAt
	}
	if patch.DeliveryAt != nil {
		deliveryAt = patch.DeliveryAt
	}
	if err := a.setSchedule(pickupAt, deliveryAt); err != nil {
		return err
	}

	if patch.Tags != nil {
		a.tags = patch.Tags
	}

	return nil
}

// Assign binds the accepted courier and the agreed price, moving PUBLISHED to
// ASSIGNED. Only the application acceptance flow calls this.
func (a *Announcement) Assign(delivererID kernel.UUID, finalPrice float64) error {
	if err := delivererID.Validate(); err != nil {
		return err
	}
	if finalPrice <= 0 {
		return errs.NewValueIsInvalidError("finalPrice")
	}

	newStatus, err := a.status.TransitionTo(Assigned)
	if err != nil {
		return err
	}

	a.status = newStatus
	a.delivererID = &delivererID
	a.finalPrice = &finalPrice
	return nil
}

// Start moves ASSIGNED to IN_PROGRESS when the courier picks the goods up.
func (a *Announcement) Start() error {
	newStatus, err := a.status.TransitionTo(InProgress)
	if err != nil {
		return err
	}

	a.status = newStatus
	return nil
}

// Complete moves IN_PROGRESS to the terminal COMPLETED state.
func (a *Announcement) Complete() error {
	newStatus, err := a.status.TransitionTo(Completed)
	if err != nil {
		return err
	}

	a.status = newStatus
	return nil
}

// Cancel moves any non-terminal state to CANCELLED. Also used by the expiry
// job for PUBLISHED announcements that outlived their window.
func (a *Announcement) Cancel() error {
	newStatus, err := a.status.TransitionTo(Cancelled)
	if err != nil {
		return err
	}

	a.status = newStatus
	return nil
}

// IsDeletable reports whether deletion is allowed; announcements with an
// active delivery underway (ASSIGNED, IN_PROGRESS) must not be deleted.
func (a *Announcement) IsDeletable() bool {
	return a.status != Assigned && a.status != InProgress
}

func (a *Announcement) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Announcement) setRequesterID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("requesterId", err)
	}
	a.requesterID = id
	return nil
}

func (a *Announcement) setTitle(title string) error {
	if title == "" {
		return errs.NewValueIsRequiredError("title")
	}
	a.title = title
	return nil
}

func (a *Announcement) setType(t Type) error {
	if err := t.Validate(); err != nil {
		return err
	}
	a.aType = t
	return nil
}

func (a *Announcement) setPriority(p Priority) error {
	if err := p.Validate(); err != nil {
		return err
	}
	a.priority = p
	return nil
}

func (a *Announcement) setAddresses(pickup, dropoff Address) error {
	if pickup.Line() == "" {
		return errs.NewValueIsRequiredError("pickupAddress")
	}
	if dropoff.Line() == "" {
		return errs.NewValueIsRequiredError("deliveryAddress")
	}
	a.pickup = pickup
	a.dropoff = dropoff
	return nil
}

func (a *Announcement) setAttributes(attrs PhysicalAttributes) error {
	if err := attrs.Validate(); err != nil {
		return err
	}
	a.attrs = attrs
	return nil
}

func (a *Announcement) setSchedule(pickupAt, deliveryAt *time.Time) error {
	if pickupAt != nil && deliveryAt != nil && deliveryAt.Before(*pickupAt) {
		return ErrDeliveryDateBeforePickup
	}
	a.pickupAt = pickupAt
	a.deliveryAt = deliveryAt
	return nil
}

func (a *Announcement) setSuggestedPrice(price float64) error {
	if price <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("suggestedPrice",
			fmt.Errorf("%f is not greater than 0", price))
	}
	a.suggestedPrice = price
	return nil
}
