package delivery

import (
	"errors"
	"time"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
	"crowdship/internal/pkg/guard"
)

// DeliveryProximityKm is how close a proof checkpoint must be to the stated
// dropoff point for MarkDelivered to accept it.
const DeliveryProximityKm = 0.3

var (
	// ErrDeliveryIsNotConstructed is returned when a Delivery was not created
	// through NewDelivery or RestoreDelivery.
	ErrDeliveryIsNotConstructed = errors.New(
		"Delivery must be created via NewDelivery or RestoreDelivery")

	// ErrConfirmationCodeNotGenerated is returned when confirm is called
	// before any code was generated for the delivery.
	ErrConfirmationCodeNotGenerated = errors.New("confirmation code has not been generated")

	// ErrConfirmationMismatch is returned when the submitted code does not
	// equal the stored one. Each mismatch counts as an attempt.
	ErrConfirmationMismatch = errors.New("confirmation code does not match")

	// ErrConfirmationExpired is returned when the stored code was already
	// consumed by a successful confirmation.
	ErrConfirmationExpired = errors.New("confirmation code has already been used")

	// ErrTooManyAttempts is returned once the mismatch count reaches the
	// configured limit; the code must be regenerated to proceed.
	ErrTooManyAttempts = errors.New("too many confirmation attempts")

	// ErrProofRequired is returned when a forward transition needs a proof
	// checkpoint and none was supplied.
	ErrProofRequired = errors.New("checkpoint with photo or signature proof is required")

	// ErrProofTooFarFromDropoff is returned when the delivery proof
	// checkpoint is recorded away from the stated dropoff point.
	ErrProofTooFarFromDropoff = errors.New("proof checkpoint is too far from the dropoff point")

	// ErrPickupCodeMismatch is returned when pickup is attempted with a wrong
	// code and no proof checkpoint.
	ErrPickupCodeMismatch = errors.New("pickup code does not match")
)

// Delivery is the execution record created exactly once when an application
// is accepted. It owns the delivery state machine, the confirmation code
// lifecycle and the current-location pointer. Status and location writes
// belong to the bound courier; confirmation belongs to the bound requester.
type Delivery struct {
	id             kernel.UUID
	announcementID kernel.UUID
	requesterID    kernel.UUID
	courierID      kernel.UUID

	status       Status
	trackingCode string
	pickupCode   string

	confirmationCode     string
	confirmationConsumed bool
	confirmationAttempts int

	dropoffPoint *kernel.GeoPoint

	price PriceBreakdown

	currentPosition *Position
	checkpoints     []Checkpoint

	pickedUpAt  *time.Time
	deliveredAt *time.Time
	confirmedAt *time.Time

	guard guard.ConstructorGuard
}

// NewDelivery creates a delivery in ACCEPTED status, bound 1:1 to its
// announcement. The tracking and pickup codes are generated by the caller so
// the aggregate stays clock-free.
func NewDelivery(
	id kernel.UUID,
	announcementID kernel.UUID,
	requesterID kernel.UUID,
	courierID kernel.UUID,
	trackingCode string,
	pickupCode string,
	dropoffPoint *kernel.GeoPoint,
	price PriceBreakdown,
) (*Delivery, error) {
	d := &Delivery{
		status: Accepted,
		price:  price,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setAnnouncementID(announcementID),
		d.setRequesterID(requesterID),
		d.setCourierID(courierID),
		d.setTrackingCode(trackingCode),
		d.setDropoffPoint(dropoffPoint),
	); err != nil {
		return nil, err
	}
	d.pickupCode = pickupCode

	return d, nil
}

// RestoreDelivery reconstructs a delivery from persistence.
func RestoreDelivery(
	id kernel.UUID,
	announcementID kernel.UUID,
	requesterID kernel.UUID,
	courierID kernel.UUID,
	status Status,
	trackingCode string,
	pickupCode string,
	confirmationCode string,
	confirmationConsumed bool,
	confirmationAttempts int,
	dropoffPoint *kernel.GeoPoint,
	price PriceBreakdown,
	currentPosition *Position,
	checkpoints []Checkpoint,
	pickedUpAt *time.Time,
	deliveredAt *time.Time,
	confirmedAt *time.Time,
) (*Delivery, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &Delivery{
		id:                   id,
		announcementID:       announcementID,
		requesterID:          requesterID,
		courierID:            courierID,
		status:               status,
		trackingCode:         trackingCode,
		pickupCode:           pickupCode,
		confirmationCode:     confirmationCode,
		confirmationConsumed: confirmationConsumed,
		confirmationAttempts: confirmationAttempts,
		dropoffPoint:         dropoffPoint,
		price:                price,
		currentPosition:      currentPosition,
		checkpoints:          checkpoints,
		pickedUpAt:           pickedUpAt,
		deliveredAt:          deliveredAt,
		confirmedAt:          confirmedAt,
		guard:                guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the aggregate was built via a constructor.
func (d *Delivery) Validate() error {
	if d == nil {
		return ErrDeliveryIsNotConstructed
	}
	return d.guard.Validate(ErrDeliveryIsNotConstructed)
}

func (d *Delivery) ID() kernel.UUID             { return d.id }
func (d *Delivery) AnnouncementID() kernel.UUID { return d.announcementID }
func (d *Delivery) RequesterID() kernel.UUID    { return d.requesterID }
func (d *Delivery) CourierID() kernel.UUID      { return d.courierID }
func (d *Delivery) Status() Status              { return d.status }
func (d *Delivery) TrackingCode() string        { return d.trackingCode }
func (d *Delivery) PickupCode() string          { return d.pickupCode }

// ConfirmationCode returns the stored code; empty until generated.
func (d *Delivery) ConfirmationCode() string { return d.confirmationCode }

func (d *Delivery) ConfirmationConsumed() bool { return d.confirmationConsumed }
func (d *Delivery) ConfirmationAttempts() int  { return d.confirmationAttempts }
func (d *Delivery) DropoffPoint() *kernel.GeoPoint { return d.dropoffPoint }
func (d *Delivery) Price() PriceBreakdown      { return d.price }
func (d *Delivery) CurrentPosition() *Position { return d.currentPosition }
func (d *Delivery) Checkpoints() []Checkpoint  { return d.checkpoints }
func (d *Delivery) PickedUpAt() *time.Time     { return d.pickedUpAt }
func (d *Delivery) DeliveredAt() *time.Time    { return d.deliveredAt }
func (d *Delivery) ConfirmedAt() *time.Time    { return d.confirmedAt }

// IsEqual compares deliveries by identifier.
func (d *Delivery) IsEqual(other *Delivery) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// IsParty reports whether the actor is the bound requester or courier.
func (d *Delivery) IsParty(actorID kernel.UUID) bool {
	return d.requesterID.IsEqual(actorID) || d.courierID.IsEqual(actorID)
}

// MarkPickedUp transitions ACCEPTED to PICKED_UP. Only the bound courier may
// pick up, and must present either the matching pickup code or a proof
// checkpoint. A supplied checkpoint is appended to the history.
func (d *Delivery) MarkPickedUp(actorID kernel.UUID, pickupCode string, proof *Checkpoint, now time.Time) error {
	if !d.courierID.IsEqual(actorID) {
		return errs.NewForbiddenError(actorID.String(), "mark the delivery picked up")
	}

	hasProof := proof != nil && proof.HasProof()
	if !hasProof && pickupCode != d.pickupCode {
		return ErrPickupCodeMismatch
	}

	newStatus, err := d.status.TransitionTo(PickedUp)
	if err != nil {
		return err
	}

	d.status = newStatus
	d.pickedUpAt = &now
	if proof != nil {
		d.checkpoints = append(d.checkpoints, *proof)
	}
	return nil
}

// StartTransit transitions PICKED_UP to IN_TRANSIT. Courier only.
func (d *Delivery) StartTransit(actorID kernel.UUID) error {
	if !d.courierID.IsEqual(actorID) {
		return errs.NewForbiddenError(actorID.String(), "start transit")
	}

	newStatus, err := d.status.TransitionTo(InTransit)
	if err != nil {
		return err
	}

	d.status = newStatus
	return nil
}

// MarkDelivered transitions IN_TRANSIT to DELIVERED. The courier must supply
// a checkpoint with photo or signature proof; when both the checkpoint and
// the dropoff carry coordinates, the checkpoint must fall within
// DeliveryProximityKm of the dropoff point.
func (d *Delivery) MarkDelivered(actorID kernel.UUID, proof Checkpoint, now time.Time) error {
	if !d.courierID.IsEqual(actorID) {
		return errs.NewForbiddenError(actorID.String(), "mark the delivery delivered")
	}
	if !proof.HasProof() {
		return ErrProofRequired
	}
	if d.dropoffPoint != nil && proof.Point() != nil {
		within, err := proof.Point().WithinKm(*d.dropoffPoint, DeliveryProximityKm)
		if err != nil {
			return err
		}
		if !within {
			return ErrProofTooFarFromDropoff
		}
	}

	newStatus, err := d.status.TransitionTo(Delivered)
	if err != nil {
		return err
	}

	d.status = newStatus
	d.deliveredAt = &now
	d.checkpoints = append(d.checkpoints, proof)
	return nil
}

// Cancel moves any non-terminal state to CANCELLED. Either bound party may
// cancel.
func (d *Delivery) Cancel(actorID kernel.UUID) error {
	if !d.IsParty(actorID) {
		return errs.NewForbiddenError(actorID.String(), "cancel the delivery")
	}
	return d.transition(Cancelled)
}

// Fail moves any non-terminal state to FAILED. Courier only.
func (d *Delivery) Fail(actorID kernel.UUID) error {
	if !d.courierID.IsEqual(actorID) {
		return errs.NewForbiddenError(actorID.String(), "fail the delivery")
	}
	return d.transition(Failed)
}

// Dispute moves any non-terminal state to DISPUTED. Either bound party may
// raise a dispute; resolution transitions out of DISPUTED later.
func (d *Delivery) Dispute(actorID kernel.UUID) error {
	if !d.IsParty(actorID) {
		return errs.NewForbiddenError(actorID.String(), "dispute the delivery")
	}
	return d.transition(Disputed)
}

func (d *Delivery) transition(to Status) error {
	newStatus, err := d.status.TransitionTo(to)
	if err != nil {
		return err
	}
	d.status = newStatus
	return nil
}

// AddCheckpoint appends a waypoint to the history. Courier only; rejected
// once the delivery is terminal.
func (d *Delivery) AddCheckpoint(actorID kernel.UUID, checkpoint Checkpoint) error {
	if !d.courierID.IsEqual(actorID) {
		return errs.NewForbiddenError(actorID.String(), "record a checkpoint")
	}
	if d.status.IsTerminal() {
		return errs.NewInvalidStateTransitionErrorWithCause("delivery",
			d.status.String(), d.status.String(),
			errors.New("checkpoints cannot be added to a terminal delivery"))
	}

	d.checkpoints = append(d.checkpoints, checkpoint)
	return nil
}

// SetConfirmationCode stores a freshly generated code. Only the bound
// requester may generate; regenerating before use invalidates the previous
// code and resets the attempt counter.
func (d *Delivery) SetConfirmationCode(actorID kernel.UUID, code string) error {
	if !d.requesterID.IsEqual(actorID) {
		return errs.NewForbiddenError(actorID.String(), "generate a confirmation code")
	}
	if d.status.IsTerminal() {
		return errs.NewInvalidStateTransitionErrorWithCause("delivery",
			d.status.String(), d.status.String(),
			errors.New("confirmation codes cannot be generated for a terminal delivery"))
	}

	d.confirmationCode = code
	d.confirmationConsumed = false
	d.confirmationAttempts = 0
	return nil
}

// Confirm validates the submitted code and closes the delivery. Requester
// only; the delivery must be DELIVERED (or DISPUTED, as dispute resolution).
// A consumed code fails as expired, a mismatch counts as an attempt, and once
// maxAttempts mismatches accumulate every further call is locked out until
// the code is regenerated.
func (d *Delivery) Confirm(actorID kernel.UUID, code string, maxAttempts int, now time.Time) error {
	if !d.requesterID.IsEqual(actorID) {
		return errs.NewForbiddenError(actorID.String(), "confirm the delivery")
	}
	if !d.status.CanTransitionTo(Confirmed) {
		return errs.NewInvalidStateTransitionError("delivery",
			d.status.String(), Confirmed.String())
	}
	if d.confirmationCode == "" {
		return ErrConfirmationCodeNotGenerated
	}
	if d.confirmationConsumed {
		return ErrConfirmationExpired
	}
	if d.confirmationAttempts >= maxAttempts {
		return ErrTooManyAttempts
	}
	if code != d.confirmationCode {
		d.confirmationAttempts++
		return ErrConfirmationMismatch
	}

	newStatus, err := d.status.TransitionTo(Confirmed)
	if err != nil {
		return err
	}

	d.status = newStatus
	d.confirmationConsumed = true
	d.confirmedAt = &now
	return nil
}

// ApplyPosition reconciles a location update against the current-location
// pointer. It returns true when the update is strictly newer and replaced the
// pointer, false when it was discarded as stale or duplicate. Stale updates
// are a no-op, never an error. A terminal delivery is immutable and discards
// every update.
func (d *Delivery) ApplyPosition(position Position) bool {
	if d.status.IsTerminal() {
		return false
	}
	if !position.IsNewerThan(d.currentPosition) {
		return false
	}
	d.currentPosition = &position
	return true
}

func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Delivery) setAnnouncementID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("announcementId", err)
	}
	d.announcementID = id
	return nil
}

func (d *Delivery) setRequesterID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("requesterId", err)
	}
	d.requesterID = id
	return nil
}

func (d *Delivery) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("courierId", err)
	}
	d.courierID = id
	return nil
}

func (d *Delivery) setTrackingCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("trackingCode")
	}
	d.trackingCode = code
	return nil
}

func (d *Delivery) setDropoffPoint(point *kernel.GeoPoint) error {
	if point != nil {
		if err := point.Validate(); err != nil {
			return err
		}
	}
	d.dropoffPoint = point
	return nil
}
