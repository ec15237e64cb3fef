package application

import (
	"errors"
	"fmt"
	"time"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
	"crowdship/internal/pkg/guard"
)

var (
	// ErrApplicationIsNotConstructed is returned when an Application was not
	// created through NewApplication or RestoreApplication.
	ErrApplicationIsNotConstructed = errors.New(
		"Application must be created via NewApplication or RestoreApplication")

	// ErrDuplicateApplication is returned when a courier applies twice to the
	// same announcement. Storage enforces this with a unique index and maps
	// the constraint violation to this error.
	ErrDuplicateApplication = errors.New("courier has already applied to this announcement")

	// ErrOwnAnnouncement is returned when a requester applies to their own
	// announcement.
	ErrOwnAnnouncement = errors.New("requester cannot apply to their own announcement")
)

// Application is a courier's competitive bid on a published announcement.
// Decisions (accept, reject) are valid only while the application is PENDING;
// acceptance is arbitrated by the surrounding transaction, not by the entity.
type Application struct {
	id             kernel.UUID
	announcementID kernel.UUID
	courierID      kernel.UUID

	proposedPrice float64
	message       string

	status    Status
	decidedAt *time.Time

	guard guard.ConstructorGuard
}

// NewApplication creates a PENDING application with the courier's proposed
// price. The price must be positive.
func NewApplication(
	id kernel.UUID,
	announcementID kernel.UUID,
	courierID kernel.UUID,
	proposedPrice float64,
	message string,
) (*Application, error) {
	a := &Application{
		status:  Pending,
		message: message,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setAnnouncementID(announcementID),
		a.setCourierID(courierID),
		a.setProposedPrice(proposedPrice),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreApplication reconstructs an application from persistence.
func RestoreApplication(
	id kernel.UUID,
	announcementID kernel.UUID,
	courierID kernel.UUID,
	proposedPrice float64,
	message string,
	status Status,
	decidedAt *time.Time,
) (*Application, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &Application{
		id:             id,
		announcementID: announcementID,
		courierID:      courierID,
		proposedPrice:  proposedPrice,
		message:        message,
		status:         status,
		decidedAt:      decidedAt,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the entity was built via a constructor.
func (a *Application) Validate() error {
	if a == nil {
		return ErrApplicationIsNotConstructed
	}
	return a.guard.Validate(ErrApplicationIsNotConstructed)
}

func (a *Application) ID() kernel.UUID             { return a.id }
func (a *Application) AnnouncementID() kernel.UUID { return a.announcementID }
func (a *Application) CourierID() kernel.UUID      { return a.courierID }
func (a *Application) ProposedPrice() float64      { return a.proposedPrice }
func (a *Application) Message() string             { return a.message }
func (a *Application) Status() Status              { return a.status }
func (a *Application) DecidedAt() *time.Time       { return a.decidedAt }

// IsEqual compares applications by identifier.
func (a *Application) IsEqual(other *Application) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// Accept marks a PENDING application as the winning one.
func (a *Application) Accept(now time.Time) error {
	return a.decide(Accepted, now)
}

// Reject declines a PENDING application. Used both for an explicit requester
// decision and for the automatic rejection of losing siblings on accept.
func (a *Application) Reject(now time.Time) error {
	return a.decide(Rejected, now)
}

func (a *Application) decide(to Status, now time.Time) error {
	if !a.status.IsPending() {
		return errs.NewInvalidStateTransitionErrorWithCause("application",
			a.status.String(), to.String(),
			errors.New("only PENDING applications can be decided"))
	}

	a.status = to
	a.decidedAt = &now
	return nil
}

func (a *Application) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Application) setAnnouncementID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("announcementId", err)
	}
	a.announcementID = id
	return nil
}

func (a *Application) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("courierId", err)
	}
	a.courierID = id
	return nil
}

func (a *Application) setProposedPrice(price float64) error {
	if price <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("proposedPrice",
			fmt.Errorf("%f is not greater than 0", price))
	}
	a.proposedPrice = price
	return nil
}
