package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"teamhub/internal/delivery/http/helpers"
	"teamhub/internal/delivery/http/middleware"
	"teamhub/internal/domain"
)

const dateLayout = "2006-01-02"

// EventFields are the editable event fields shared by create and update.
type EventFields struct {
	EventType       string   `json:"event_type" validate:"required,oneof=home_match away_match training other match social meeting"`
	Title           string   `json:"title" validate:"max=200"`
	// Team names are capped so a derived "home vs away" title fits the 200 character title.
	HomeTeamName    string   `json:"home_team_name" validate:"max=98"`
	AwayTeamName    string   `json:"away_team_name" validate:"max=98"`
	Date            string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       string   `json:"start_time" validate:"required,clock"`
	EndTime         *string  `json:"end_time" validate:"omitempty,clock"`
	LocationName    *string  `json:"location_name"`
	LocationAddress *string  `json:"location_address"`
	LocationLat     *float64 `json:"location_lat" validate:"omitempty,min=-90,max=90"`
	LocationLng     *float64 `json:"location_lng" validate:"omitempty,min=-180,max=180"`
	Description     string   `json:"description"`
	Opponent        string   `json:"opponent"`
	MeetTime        string   `json:"meet_time"`
	Kit             string   `json:"kit"`
	Message         string   `json:"message"`
}

// draft converts validated fields into a domain draft.
func (f EventFields) draft() (domain.EventDraft, error) {
	eventType, err := domain.ParseEventType(f.EventType)
	if err != nil {
		return domain.EventDraft{}, err
	}
	date, err := time.Parse(dateLayout, f.Date)
	if err != nil {
		return domain.EventDraft{}, err
	}
	return domain.EventDraft{
		Type:            eventType,
		Title:           f.Title,
		HomeTeamName:    f.HomeTeamName,
		AwayTeamName:    f.AwayTeamName,
		Date:            date,
		StartTime:       f.StartTime,
		EndTime:         f.EndTime,
		LocationName:    f.LocationName,
		LocationAddress: f.LocationAddress,
		LocationLat:     f.LocationLat,
		LocationLng:     f.LocationLng,
		Description:     f.Description,
		Opponent:        f.Opponent,
		Notes:           domain.EventNotes{MeetTime: f.MeetTime, Kit: f.Kit, Message: f.Message},
	}, nil
}

// CreateEventRequest is the request body for POST /events.
// Members are invited as players and leaders as coaches.
type CreateEventRequest struct {
	EventFields
	TeamID  string   `json:"team_id" validate:"required,uuid"`
	Members []string `json:"members" validate:"omitempty,dive,uuid"`
	Leaders []string `json:"leaders" validate:"omitempty,dive,uuid"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	return helpers.ValidateStruct(c)
}

// UpdateEventRequest is the request body for PUT /events/{eventID}. The full set of editable
// fields is sent; the invitation list is changed by the add and remove ids.
type UpdateEventRequest struct {
	EventFields
	AddMemberIDs    []string `json:"add_member_ids" validate:"omitempty,dive,uuid"`
	RemoveMemberIDs []string `json:"remove_member_ids" validate:"omitempty,dive,uuid"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	return helpers.ValidateStruct(u)
}

// CancelEventRequest is the optional request body for POST /events/{eventID}/cancel.
type CancelEventRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// Validate implements Validator.
func (c CancelEventRequest) Validate() []string {
	return helpers.ValidateStruct(c)
}

// EventSuccessResponse is the success response envelope carrying one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UpdateEventResponse is the data payload for PUT /events/{eventID}.
type UpdateEventResponse struct {
	Event       *domain.Event        `json:"event"`
	Invitations *domain.RosterChange `json:"invitations"`
}

// UpdateEventSuccessResponse is the success response envelope for PUT /events/{eventID} (200).
type UpdateEventSuccessResponse struct {
	Data  UpdateEventResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type EventController struct {
	Logger      *slog.Logger
	Service     domain.EventService
	Invitations domain.InvitationService
	Notifier    domain.NotificationSender
}

func NewEventController(logger *slog.Logger, svc domain.EventService, invitations domain.InvitationService, notifier domain.NotificationSender) *EventController {
	return &EventController{
		Logger:      logger,
		Service:     svc,
		Invitations: invitations,
		Notifier:    notifier,
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Creates an event for a team. The title is derived from the event type and names. Members get a player participant row and leaders a coach row, and each gets a pending invitation. Seeding failures do not fail the request.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 422 {object} helpers.APIResponse "error.code: constraint_violation"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	draft, err := req.draft()
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	draft.TeamID = req.TeamID
	draft.Members = req.Members
	draft.Leaders = req.Leaders
	event, err := c.Service.CreateEvent(r.Context(), draft, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.notifyAll(r, event, domain.TemplateEventInvitation, distinct(req.Members, req.Leaders), nil)
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEvent godoc
// @Summary Update an event and its invitation list
// @Description Replaces the editable fields, regenerates the title and reconciles invitations in one transaction. The authenticated user is recorded as the inviter of added members. Added members get an invitation notification and removed members an uninvited notification.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Event fields and invitation changes"
// @Success 200 {object} controllers.UpdateEventSuccessResponse "data contains the event and the invitation change"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 422 {object} helpers.APIResponse "error.code: constraint_violation"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	draft, err := req.draft()
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	event, change, err := c.Service.UpdateEvent(r.Context(), eventID, draft, userID, req.AddMemberIDs, req.RemoveMemberIDs)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if change != nil {
		c.notifyAll(r, event, domain.TemplateEventInvitation, change.AddedUserIDs, nil)
		c.notifyAll(r, event, domain.TemplateEventUninvited, change.RemovedUserIDs, nil)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UpdateEventResponse{Event: event, Invitations: change})
}

// CancelEvent godoc
// @Summary Cancel an event
// @Description Marks the event cancelled and records the reason, time and actor. Cancelling again overwrites them. Every invitee gets a cancellation notification.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body CancelEventRequest false "Cancellation reason (defaults to \"Cancel Event\")"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the cancelled event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: constraint_violation"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/cancel [post]
func (c *EventController) CancelEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req CancelEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.CancelEvent(r.Context(), eventID, userID, req.Reason)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	invitations, err := c.Invitations.ListInvitations(r.Context(), eventID)
	if err != nil {
		c.Logger.WarnContext(r.Context(), "cancellation notices skipped", "event_id", eventID, "err", err)
	} else {
		userIDs := make([]string, 0, len(invitations))
		for _, inv := range invitations {
			userIDs = append(userIDs, inv.UserID)
		}
		var reason map[string]string
		if event.CancelledReason != nil {
			reason = map[string]string{"reason": *event.CancelledReason}
		}
		c.notifyAll(r, event, domain.TemplateEventCancelled, userIDs, reason)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
