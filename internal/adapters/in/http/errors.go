package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"crowdship/internal/core/application/usecases/commands"
	"crowdship/internal/core/domain/model/application"
	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/rating"
	"crowdship/internal/pkg/errs"
)

// statusForError maps domain and application errors to HTTP status codes.
// Anything unrecognized is a 500; the message is not exposed in that case.
func statusForError(err error) int {
	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest

	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound

	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, delivery.ErrTooManyAttempts):
		return http.StatusTooManyRequests

	case errors.Is(err, delivery.ErrConfirmationExpired):
		return http.StatusGone

	case errors.Is(err, delivery.ErrConfirmationMismatch),
		errors.Is(err, delivery.ErrConfirmationCodeNotGenerated),
		errors.Is(err, delivery.ErrPickupCodeMismatch),
		errors.Is(err, delivery.ErrProofRequired),
		errors.Is(err, delivery.ErrProofTooFarFromDropoff):
		return http.StatusUnprocessableEntity

	case errors.Is(err, errs.ErrInvalidStateTransition),
		errors.Is(err, application.ErrDuplicateApplication),
		errors.Is(err, application.ErrOwnAnnouncement),
		errors.Is(err, rating.ErrDuplicateRating),
		errors.Is(err, rating.ErrSelfRating),
		errors.Is(err, commands.ErrAnnouncementNotOpen),
		errors.Is(err, commands.ErrAnnouncementNotDeletable),
		errors.Is(err, commands.ErrTooManyActiveDeliveries):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

func writeError(ctx echo.Context, err error) error {
	status := statusForError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	return ctx.JSON(status, ErrorResponse{Code: status, Message: message})
}
