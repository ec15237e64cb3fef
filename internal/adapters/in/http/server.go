// Package http is the inbound REST adapter. Handlers bind request bodies,
// construct commands or queries, and translate errors to status codes.
// The acting user is taken from the X-User-ID header; an upstream gateway
// is expected to have authenticated it.
package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"crowdship/internal/core/application/usecases/commands"
	"crowdship/internal/core/application/usecases/queries"
	"crowdship/internal/core/domain/model/announcement"
	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

const (
	actorHeader = "X-User-ID"
	roleHeader  = "X-User-Role"
	roleAdmin   = "admin"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createAnnouncement  commands.CreateAnnouncementCommandHandler
	publishAnnouncement commands.PublishAnnouncementCommandHandler
	updateAnnouncement  commands.UpdateAnnouncementCommandHandler
	deleteAnnouncement  commands.DeleteAnnouncementCommandHandler

	applyToAnnouncement commands.ApplyToAnnouncementCommandHandler
	acceptApplication   commands.AcceptApplicationCommandHandler
	rejectApplication   commands.RejectApplicationCommandHandler

	updateDeliveryStatus commands.UpdateDeliveryStatusCommandHandler
	recordCheckpoint     commands.RecordCheckpointCommandHandler
	recordLocation       commands.RecordLocationCommandHandler
	generateCode         commands.GenerateConfirmationCodeCommandHandler
	confirmDelivery      commands.ConfirmDeliveryCommandHandler
	rateDelivery         commands.RateDeliveryCommandHandler

	searchAnnouncements queries.SearchAnnouncementsQueryHandler
	getAnnouncement     queries.GetAnnouncementQueryHandler
	getTracking         queries.GetDeliveryTrackingQueryHandler
}

// NewServer creates an HTTP server over the given handlers.
func NewServer(
	createAnnouncement commands.CreateAnnouncementCommandHandler,
	publishAnnouncement commands.PublishAnnouncementCommandHandler,
	updateAnnouncement commands.UpdateAnnouncementCommandHandler,
	deleteAnnouncement commands.DeleteAnnouncementCommandHandler,
	applyToAnnouncement commands.ApplyToAnnouncementCommandHandler,
	acceptApplication commands.AcceptApplicationCommandHandler,
	rejectApplication commands.RejectApplicationCommandHandler,
	updateDeliveryStatus commands.UpdateDeliveryStatusCommandHandler,
	recordCheckpoint commands.RecordCheckpointCommandHandler,
	recordLocation commands.RecordLocationCommandHandler,
	generateCode commands.GenerateConfirmationCodeCommandHandler,
	confirmDelivery commands.ConfirmDeliveryCommandHandler,
	rateDelivery commands.RateDeliveryCommandHandler,
	searchAnnouncements queries.SearchAnnouncementsQueryHandler,
	getAnnouncement queries.GetAnnouncementQueryHandler,
	getTracking queries.GetDeliveryTrackingQueryHandler,
) *Server {
	return &Server{
		createAnnouncement:   createAnnouncement,
		publishAnnouncement:  publishAnnouncement,
		updateAnnouncement:   updateAnnouncement,
		deleteAnnouncement:   deleteAnnouncement,
		applyToAnnouncement:  applyToAnnouncement,
		acceptApplication:    acceptApplication,
		rejectApplication:    rejectApplication,
		updateDeliveryStatus: updateDeliveryStatus,
		recordCheckpoint:     recordCheckpoint,
		recordLocation:       recordLocation,
		generateCode:         generateCode,
		confirmDelivery:      confirmDelivery,
		rateDelivery:         rateDelivery,
		searchAnnouncements:  searchAnnouncements,
		getAnnouncement:      getAnnouncement,
		getTracking:          getTracking,
	}
}

// RegisterRoutes mounts all endpoints under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	v1.POST("/announcements", s.CreateAnnouncement)
	v1.GET("/announcements", s.SearchAnnouncements)
	v1.GET("/announcements/:id", s.GetAnnouncement)
	v1.PATCH("/announcements/:id", s.UpdateAnnouncement)
	v1.DELETE("/announcements/:id", s.DeleteAnnouncement)
	v1.POST("/announcements/:id/publish", s.PublishAnnouncement)
	v1.POST("/announcements/:id/applications", s.ApplyToAnnouncement)

	v1.POST("/applications/:id/accept", s.AcceptApplication)
	v1.POST("/applications/:id/reject", s.RejectApplication)

	v1.POST("/deliveries/:id/status", s.UpdateDeliveryStatus)
	v1.POST("/deliveries/:id/checkpoints", s.RecordCheckpoint)
	v1.POST("/deliveries/:id/locations", s.RecordLocation)
	v1.POST("/deliveries/:id/confirmation-code", s.GenerateConfirmationCode)
	v1.POST("/deliveries/:id/confirm", s.ConfirmDelivery)
	v1.POST("/deliveries/:id/ratings", s.RateDelivery)
	v1.GET("/deliveries/:id/tracking", s.GetTracking)

	v1.GET("/tracking/:code", s.GetTrackingByCode)
}

func actorFrom(ctx echo.Context) (kernel.UUID, error) {
	return parseActorID(ctx.Request().Header.Get(actorHeader))
}

func pathID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}

// CreateAnnouncement handles POST /api/v1/announcements.
func (s *Server) CreateAnnouncement(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var request CreateAnnouncementRequest
	if err := ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	aType, err := announcement.TypeFromString(request.Type)
	if err != nil {
		return writeError(ctx, err)
	}

	priority, err := announcement.PriorityFromString(request.Priority)
	if err != nil {
		return writeError(ctx, err)
	}

	pickup, err := addressFromDTO(request.Pickup)
	if err != nil {
		return writeError(ctx, err)
	}

	dropoff, err := addressFromDTO(request.Dropoff)
	if err != nil {
		return writeError(ctx, err)
	}

	announcementID := kernel.NewUUID()

	cmd, err := commands.NewCreateAnnouncementCommand(
		announcementID,
		actor,
		request.Title,
		request.Description,
		aType,
		priority,
		pickup,
		dropoff,
		attributesFromDTO(request.Attributes),
		request.PickupAt,
		request.DeliveryAt,
		request.SuggestedPrice,
		request.Negotiable,
		request.Tags,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.createAnnouncement.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: announcementID.String()})
}

// PublishAnnouncement handles POST /api/v1/announcements/:id/publish.
func (s *Server) PublishAnnouncement(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	announcementID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewPublishAnnouncementCommand(announcementID, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.publishAnnouncement.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateAnnouncement handles PATCH /api/v1/announcements/:id.
func (s *Server) UpdateAnnouncement(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	announcementID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var request UpdateAnnouncementRequest
	if err := ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	patch, err := request.toPatch()
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewUpdateAnnouncementCommand(announcementID, actor, patch)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.updateAnnouncement.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeleteAnnouncement handles DELETE /api/v1/announcements/:id.
// Admins, identified by the role header, may delete announcements of others.
func (s *Server) DeleteAnnouncement(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	announcementID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	isAdmin := ctx.Request().Header.Get(roleHeader) == roleAdmin

	cmd, err := commands.NewDeleteAnnouncementCommand(announcementID, actor, isAdmin)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.deleteAnnouncement.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ApplyToAnnouncement handles POST /api/v1/announcements/:id/applications.
func (s *Server) ApplyToAnnouncement(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	announcementID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var request ApplyRequest
	if err := ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	applicationID := kernel.NewUUID()

	cmd, err := commands.NewApplyToAnnouncementCommand(
		applicationID,
		announcementID,
		actor,
		request.ProposedPrice,
		request.Message,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.applyToAnnouncement.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: applicationID.String()})
}

// AcceptApplication handles POST /api/v1/applications/:id/accept.
func (s *Server) AcceptApplication(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	applicationID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewAcceptApplicationCommand(applicationID, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.acceptApplication.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RejectApplication handles POST /api/v1/applications/:id/reject.
func (s *Server) RejectApplication(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	applicationID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewRejectApplicationCommand(applicationID, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.rejectApplication.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateDeliveryStatus handles POST /api/v1/deliveries/:id/status.
func (s *Server) UpdateDeliveryStatus(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	deliveryID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var request UpdateDeliveryStatusRequest
	if err := ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	target, err := delivery.StatusFromString(request.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	var checkpoint *commands.CheckpointInput
	if request.Checkpoint != nil {
		input, err := checkpointInputFromDTO(*request.Checkpoint)
		if err != nil {
			return writeError(ctx, err)
		}
		checkpoint = &input
	}

	cmd, err := commands.NewUpdateDeliveryStatusCommand(deliveryID, actor, target, request.PickupCode, checkpoint)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.updateDeliveryStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RecordCheckpoint handles POST /api/v1/deliveries/:id/checkpoints.
func (s *Server) RecordCheckpoint(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	deliveryID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var request CheckpointDTO
	if err := ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	input, err := checkpointInputFromDTO(request)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewRecordCheckpointCommand(deliveryID, actor, input)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.recordCheckpoint.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// RecordLocation handles POST /api/v1/deliveries/:id/locations.
func (s *Server) RecordLocation(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	deliveryID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var request RecordLocationRequest
	if err := ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	point, err := kernel.NewGeoPoint(request.Point.Lat, request.Point.Lng)
	if err != nil {
		return writeError(ctx, err)
	}

	source := delivery.SourcePush
	if request.Source != "" {
		source, err = delivery.SourceFromString(request.Source)
		if err != nil {
			return writeError(ctx, err)
		}
	}

	cmd, err := commands.NewRecordLocationCommand(
		deliveryID,
		actor,
		point,
		request.AccuracyM,
		request.Heading,
		request.SpeedKmh,
		request.RecordedAt,
		source,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.recordLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// GenerateConfirmationCode handles POST /api/v1/deliveries/:id/confirmation-code.
// The code itself is not returned; it reaches the receiver out of band.
func (s *Server) GenerateConfirmationCode(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	deliveryID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewGenerateConfirmationCodeCommand(deliveryID, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.generateCode.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ConfirmDelivery handles POST /api/v1/deliveries/:id/confirm.
func (s *Server) ConfirmDelivery(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	deliveryID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var request ConfirmDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewConfirmDeliveryCommand(deliveryID, actor, request.Code)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.confirmDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RateDelivery handles POST /api/v1/deliveries/:id/ratings.
func (s *Server) RateDelivery(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	deliveryID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var request RateDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	ratingID := kernel.NewUUID()

	cmd, err := commands.NewRateDeliveryCommand(ratingID, deliveryID, actor, request.Score, request.Comment)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.rateDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: ratingID.String()})
}

// SearchAnnouncements handles GET /api/v1/announcements.
func (s *Server) SearchAnnouncements(ctx echo.Context) error {
	filters, err := searchFiltersFromParams(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	sortKey := queries.SortByPublishedAt
	if raw := ctx.QueryParam("sort"); raw != "" {
		sortKey = queries.SortKey(raw)
	}

	limit, err := intParam(ctx, "limit", 0)
	if err != nil {
		return writeError(ctx, err)
	}

	offset, err := intParam(ctx, "offset", 0)
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewSearchAnnouncementsQuery(filters, sortKey, limit, offset)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.searchAnnouncements.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, searchResponseFromResult(result))
}

// GetAnnouncement handles GET /api/v1/announcements/:id.
func (s *Server) GetAnnouncement(ctx echo.Context) error {
	announcementID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetAnnouncementQuery(announcementID)
	if err != nil {
		return writeError(ctx, err)
	}

	detail, err := s.getAnnouncement.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, announcementDetailFromResult(detail))
}

// GetTracking handles GET /api/v1/deliveries/:id/tracking.
func (s *Server) GetTracking(ctx echo.Context) error {
	deliveryID, err := pathID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	since, err := timeParam(ctx, "since")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetDeliveryTrackingQuery(&deliveryID, "", since)
	if err != nil {
		return writeError(ctx, err)
	}

	view, err := s.getTracking.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, trackingResponseFromResult(view))
}

// GetTrackingByCode handles GET /api/v1/tracking/:code. The endpoint is
// public: knowing the code is the credential.
func (s *Server) GetTrackingByCode(ctx echo.Context) error {
	since, err := timeParam(ctx, "since")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetDeliveryTrackingQuery(nil, ctx.Param("code"), since)
	if err != nil {
		return writeError(ctx, err)
	}

	view, err := s.getTracking.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, trackingResponseFromResult(view))
}

func searchFiltersFromParams(ctx echo.Context) (queries.SearchFilters, error) {
	var filters queries.SearchFilters

	if raw := ctx.QueryParam("type"); raw != "" {
		aType, err := announcement.TypeFromString(raw)
		if err != nil {
			return queries.SearchFilters{}, err
		}
		filters.Type = &aType
	}

	if raw := ctx.QueryParam("status"); raw != "" {
		status, err := announcement.StatusFromString(raw)
		if err != nil {
			return queries.SearchFilters{}, err
		}
		filters.Status = &status
	}

	if raw := ctx.QueryParam("priority"); raw != "" {
		priority, err := announcement.PriorityFromString(raw)
		if err != nil {
			return queries.SearchFilters{}, err
		}
		filters.Priority = &priority
	}

	minPrice, err := floatParam(ctx, "min_price")
	if err != nil {
		return queries.SearchFilters{}, err
	}
	filters.MinPrice = minPrice

	maxPrice, err := floatParam(ctx, "max_price")
	if err != nil {
		return queries.SearchFilters{}, err
	}
	filters.MaxPrice = maxPrice

	filters.Keyword = ctx.QueryParam("keyword")
	filters.Tag = ctx.QueryParam("tag")

	lat, err := floatParam(ctx, "lat")
	if err != nil {
		return queries.SearchFilters{}, err
	}
	lng, err := floatParam(ctx, "lng")
	if err != nil {
		return queries.SearchFilters{}, err
	}
	if lat != nil && lng != nil {
		origin, err := kernel.NewGeoPoint(*lat, *lng)
		if err != nil {
			return queries.SearchFilters{}, err
		}
		filters.Origin = &origin
	} else if lat != nil || lng != nil {
		return queries.SearchFilters{}, errs.NewValueIsRequiredError("lat and lng")
	}

	radius, err := floatParam(ctx, "radius_km")
	if err != nil {
		return queries.SearchFilters{}, err
	}
	if radius != nil {
		filters.RadiusKm = *radius
	}

	return filters, nil
}

func floatParam(ctx echo.Context, name string) (*float64, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return &value, nil
}

func intParam(ctx echo.Context, name string, fallback int) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return value, nil
}

func timeParam(ctx echo.Context, name string) (*time.Time, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return &value, nil
}
