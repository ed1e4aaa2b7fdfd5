package itinerary

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/voyaiger/voyaiger-server/internal/api"
	"github.com/voyaiger/voyaiger-server/internal/planner"
	"github.com/voyaiger/voyaiger-server/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GenerateItinerary(w http.ResponseWriter, r *http.Request)
	SaveItinerary(w http.ResponseWriter, r *http.Request)
	ListItineraries(w http.ResponseWriter, r *http.Request)
	GetItinerary(w http.ResponseWriter, r *http.Request)
	UpdateItinerary(w http.ResponseWriter, r *http.Request)
	CreateInvite(w http.ResponseWriter, r *http.Request)
	ListInvites(w http.ResponseWriter, r *http.Request)
	RespondInvite(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	itineraryService Service
	logger           *slog.Logger
}

func NewHandlerImpl(itineraryService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		itineraryService: itineraryService,
		logger:           logger,
	}
}

// writeServiceError maps service errors onto status codes: validation and
// planner input errors are 400, an exhausted candidate pool is 422, missing
// rows 404, stale versions and resolved invites 409, upstream outages 503.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation    *types.ValidationError
		invalidBudget *planner.InvalidBudgetError
		invalidDates  *planner.InvalidDateRangeError
		budgetTooLow  *planner.BudgetTooLowError
		noViable      *planner.NoViableItineraryError
		insufficient  *planner.InsufficientOptionsError
	)
	switch {
	case errors.As(err, &validation),
		errors.As(err, &invalidBudget),
		errors.As(err, &invalidDates),
		errors.As(err, &budgetTooLow):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.As(err, &noViable), errors.As(err, &insufficient):
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, api.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, api.ErrConflict):
		api.ErrorResponse(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, ErrUpstream):
		api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Upstream travel data services are unavailable")
	default:
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

func parseItineraryID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "itineraryID"))
}

// GenerateItinerary godoc
// @Summary      Generate Itinerary Options
// @Description  Builds up to three distinct, budget-compliant itinerary options for a city and date range.
// @Tags         Itinerary
// @Accept       json
// @Produce      json
// @Param        request body types.GenerateItineraryRequest true "Trip Parameters"
// @Success      200 {object} types.GenerateItineraryResponse "Itinerary Options"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      422 {object} api.Response "No Viable Itinerary"
// @Failure      429 {object} api.Response "Rate Limited"
// @Failure      503 {object} api.Response "Upstream Unavailable"
// @Router       /itineraries/generate [post]
func (h *HandlerImpl) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GenerateItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/generate"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateItinerary"))

	var req types.GenerateItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	span.SetAttributes(attribute.String("itinerary.city", req.City))

	resp, err := h.itineraryService.GenerateItinerary(ctx, req)
	if err != nil {
		l.WarnContext(ctx, "Itinerary generation failed", slog.String("city", req.City), slog.Any("error", err))
		writeServiceError(w, r, err)
		return
	}

	l.InfoContext(ctx, "Itinerary options generated",
		slog.String("city", req.City), slog.Int("options", len(resp.Options)))
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// SaveItinerary godoc
// @Summary      Save Itinerary
// @Description  Persists a chosen itinerary for later retrieval and sharing.
// @Tags         Itinerary
// @Accept       json
// @Produce      json
// @Param        request body types.SaveItineraryRequest true "Itinerary To Save"
// @Success      201 {object} types.SavedItinerary "Saved Itinerary"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /itineraries [post]
func (h *HandlerImpl) SaveItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "SaveItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SaveItinerary"))

	var req types.SaveItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.itineraryService.SaveItinerary(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to save itinerary", slog.Any("error", err))
		writeServiceError(w, r, err)
		return
	}

	l.InfoContext(ctx, "Itinerary saved", slog.String("itineraryID", saved.ID.String()))
	api.WriteJSONResponse(w, r, http.StatusCreated, saved)
}

// ListItineraries godoc
// @Summary      List Itineraries
// @Description  Lists a user's saved itineraries, newest first.
// @Tags         Itinerary
// @Produce      json
// @Param        user_id   query string true  "User ID"
// @Param        page      query int    false "Page number (default 1)"
// @Param        page_size query int    false "Page size (default 10, max 50)"
// @Success      200 {object} types.PaginatedItinerariesResponse "Saved Itineraries"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /itineraries [get]
func (h *HandlerImpl) ListItineraries(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "ListItineraries", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ListItineraries"))

	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		l.WarnContext(ctx, "Invalid user ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user_id format")
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	resp, err := h.itineraryService.ListItineraries(ctx, userID, page, pageSize)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list itineraries", slog.Any("error", err))
		writeServiceError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// GetItinerary godoc
// @Summary      Get Itinerary
// @Description  Retrieves a saved itinerary by ID.
// @Tags         Itinerary
// @Produce      json
// @Param        itineraryID path string true "Itinerary ID"
// @Success      200 {object} types.SavedItinerary "Saved Itinerary"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      404 {object} api.Response "Itinerary Not Found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /itineraries/{itineraryID} [get]
func (h *HandlerImpl) GetItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GetItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/{itineraryID}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetItinerary"))

	id, err := parseItineraryID(r)
	if err != nil {
		l.WarnContext(ctx, "Invalid itinerary ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid itinerary ID format")
		return
	}

	it, err := h.itineraryService.GetItinerary(ctx, id)
	if err != nil {
		l.WarnContext(ctx, "Failed to fetch itinerary", slog.String("itineraryID", id.String()), slog.Any("error", err))
		writeServiceError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, it)
}

// UpdateItinerary godoc
// @Summary      Update Itinerary
// @Description  Replaces the itinerary data, guarded by an optimistic-lock version. The stored version must match the one submitted.
// @Tags         Itinerary
// @Accept       json
// @Produce      json
// @Param        itineraryID path string true "Itinerary ID"
// @Param        request body types.UpdateItineraryRequest true "New Data And Expected Version"
// @Success      200 {object} types.SavedItinerary "Updated Itinerary"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      404 {object} api.Response "Itinerary Not Found"
// @Failure      409 {object} api.Response "Version Conflict"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /itineraries/{itineraryID} [put]
func (h *HandlerImpl) UpdateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "UpdateItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/{itineraryID}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "UpdateItinerary"))

	id, err := parseItineraryID(r)
	if err != nil {
		l.WarnContext(ctx, "Invalid itinerary ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid itinerary ID format")
		return
	}

	var req types.UpdateItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.itineraryService.UpdateItinerary(ctx, id, req)
	if err != nil {
		l.WarnContext(ctx, "Failed to update itinerary", slog.String("itineraryID", id.String()), slog.Any("error", err))
		writeServiceError(w, r, err)
		return
	}

	l.InfoContext(ctx, "Itinerary updated",
		slog.String("itineraryID", id.String()), slog.Int("version", updated.Version))
	api.WriteJSONResponse(w, r, http.StatusOK, updated)
}

// CreateInvite godoc
// @Summary      Invite To Itinerary
// @Description  Creates a pending invite for an email address and returns the signed token for the invite link. One invite per itinerary and email.
// @Tags         Invites
// @Accept       json
// @Produce      json
// @Param        itineraryID path string true "Itinerary ID"
// @Param        request body types.CreateInviteRequest true "Invitee"
// @Success      201 {object} types.CreateInviteResponse "Created Invite"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      404 {object} api.Response "Itinerary Not Found"
// @Failure      409 {object} api.Response "Invite Already Exists"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /itineraries/{itineraryID}/invites [post]
func (h *HandlerImpl) CreateInvite(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "CreateInvite", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/{itineraryID}/invites"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "CreateInvite"))

	id, err := parseItineraryID(r)
	if err != nil {
		l.WarnContext(ctx, "Invalid itinerary ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid itinerary ID format")
		return
	}

	var req types.CreateInviteRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.itineraryService.CreateInvite(ctx, id, req)
	if err != nil {
		l.WarnContext(ctx, "Failed to create invite", slog.String("itineraryID", id.String()), slog.Any("error", err))
		writeServiceError(w, r, err)
		return
	}

	l.InfoContext(ctx, "Invite created",
		slog.String("itineraryID", id.String()), slog.String("inviteID", resp.Invite.ID.String()))
	api.WriteJSONResponse(w, r, http.StatusCreated, resp)
}

// ListInvites godoc
// @Summary      List Invites
// @Description  Lists all invites on an itinerary, oldest first.
// @Tags         Invites
// @Produce      json
// @Param        itineraryID path string true "Itinerary ID"
// @Success      200 {array} types.Invite "Invites"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      404 {object} api.Response "Itinerary Not Found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /itineraries/{itineraryID}/invites [get]
func (h *HandlerImpl) ListInvites(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "ListInvites", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/{itineraryID}/invites"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ListInvites"))

	id, err := parseItineraryID(r)
	if err != nil {
		l.WarnContext(ctx, "Invalid itinerary ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid itinerary ID format")
		return
	}

	invites, err := h.itineraryService.ListInvites(ctx, id)
	if err != nil {
		l.WarnContext(ctx, "Failed to list invites", slog.String("itineraryID", id.String()), slog.Any("error", err))
		writeServiceError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, invites)
}

// RespondInvite godoc
// @Summary      Respond To Invite
// @Description  Accepts or rejects an invite using the signed token from the invite link. Invites resolve exactly once.
// @Tags         Invites
// @Accept       json
// @Produce      json
// @Param        request body types.RespondInviteRequest true "Token And Action"
// @Success      200 {object} types.Invite "Resolved Invite"
// @Failure      400 {object} api.Response "Invalid Token Or Action"
// @Failure      404 {object} api.Response "Invite Not Found"
// @Failure      409 {object} api.Response "Invite Already Resolved"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /invites/respond [post]
func (h *HandlerImpl) RespondInvite(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "RespondInvite", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/invites/respond"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "RespondInvite"))

	var req types.RespondInviteRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	invite, err := h.itineraryService.RespondInvite(ctx, req)
	if err != nil {
		l.WarnContext(ctx, "Failed to respond to invite", slog.Any("error", err))
		writeServiceError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, invite)
}
