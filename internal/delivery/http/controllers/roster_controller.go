package controllers

import (
	"log/slog"
	"net/http"

	"teamhub/internal/delivery/http/helpers"
	"teamhub/internal/delivery/http/middleware"
	"teamhub/internal/domain"
)

// RosterChangeRequest is the request body for PATCH /events/{eventID}/invitations.
type RosterChangeRequest struct {
	Add    []string `json:"add" validate:"omitempty,dive,uuid"`
	Remove []string `json:"remove" validate:"omitempty,dive,uuid"`
}

// Validate implements Validator.
func (rc RosterChangeRequest) Validate() []string {
	return helpers.ValidateStruct(rc)
}

// SquadChangeRequest is the request body for PATCH /events/{eventID}/squad.
// PreMatchMessage is stored as the selection notes of every newly selected member.
type SquadChangeRequest struct {
	Add             []string `json:"add" validate:"omitempty,dive,uuid"`
	Remove          []string `json:"remove" validate:"omitempty,dive,uuid"`
	PreMatchMessage string   `json:"pre_match_message" validate:"max=1000"`
}

// Validate implements Validator.
func (sc SquadChangeRequest) Validate() []string {
	return helpers.ValidateStruct(sc)
}

// RespondInvitationRequest is the request body for PUT /events/{eventID}/invitations/me.
type RespondInvitationRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted declined maybe"`
}

// Validate implements Validator.
func (rr RespondInvitationRequest) Validate() []string {
	return helpers.ValidateStruct(rr)
}

// RosterChangeSuccessResponse is the success response envelope for roster edits (200).
type RosterChangeSuccessResponse struct {
	Data  *domain.RosterChange `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ListInvitationsSuccessResponse is the success response envelope for GET /events/{eventID}/invitations (200).
type ListInvitationsSuccessResponse struct {
	Data  []*domain.EventInvitation `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// InvitationSuccessResponse is the success response envelope carrying one invitation.
type InvitationSuccessResponse struct {
	Data  *domain.EventInvitation `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// ListSquadSuccessResponse is the success response envelope for GET /events/{eventID}/squad (200).
type ListSquadSuccessResponse struct {
	Data  []*domain.SquadMember `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type RosterController struct {
	Logger      *slog.Logger
	Events      domain.EventService
	Invitations domain.InvitationService
	Squads      domain.SquadService
	Notifier    domain.NotificationSender
}

func NewRosterController(logger *slog.Logger, events domain.EventService, invitations domain.InvitationService, squads domain.SquadService, notifier domain.NotificationSender) *RosterController {
	return &RosterController{
		Logger:      logger,
		Events:      events,
		Invitations: invitations,
		Squads:      squads,
		Notifier:    notifier,
	}
}

// ListInvitations godoc
// @Summary List invitations of an event
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListInvitationsSuccessResponse "data contains the invitations"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invitations [get]
func (c *RosterController) ListInvitations(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	invitations, err := c.Invitations.ListInvitations(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invitations)
}

// UpdateInvitations godoc
// @Summary Add and remove invitees
// @Description Invites members not yet invited and removes the given ones, in one transaction. Ids already invited are skipped. The authenticated user is the inviter. Added members get an invitation notification and removed members an uninvited notification.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body RosterChangeRequest true "Member ids to add and remove"
// @Success 200 {object} controllers.RosterChangeSuccessResponse "data contains the roster change"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 422 {object} helpers.APIResponse "error.code: constraint_violation"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invitations [patch]
func (c *RosterController) UpdateInvitations(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req RosterChangeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	change, err := c.Invitations.ReconcileInvitations(r.Context(), eventID, userID, req.Add, req.Remove)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if change.Success {
		event := c.eventFor(r, eventID)
		c.notifyAll(r, event, domain.TemplateEventInvitation, change.AddedUserIDs, nil)
		c.notifyAll(r, event, domain.TemplateEventUninvited, change.RemovedUserIDs, nil)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, change)
}

// RespondInvitation godoc
// @Summary Answer my invitation
// @Description Sets the authenticated member's invitation status to accepted, declined or maybe.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body RespondInvitationRequest true "Response status"
// @Success 200 {object} controllers.InvitationSuccessResponse "data contains the updated invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (not invited)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invitations/me [put]
func (c *RosterController) RespondInvitation(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req RespondInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	status, err := domain.ParseInvitationStatus(req.Status)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	inv, err := c.Invitations.Respond(r.Context(), eventID, userID, status)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, inv)
}

// ListSquad godoc
// @Summary List the squad of an event
// @Tags squad
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListSquadSuccessResponse "data contains the selected members"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/squad [get]
func (c *RosterController) ListSquad(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	squad, err := c.Squads.ListSquad(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, squad)
}

// UpdateSquad godoc
// @Summary Select and deselect squad members
// @Description Adds members not yet selected and removes the given ones, in one transaction. The authenticated user is the selector and the pre-match message is stored on each new selection. Newly selected members get a squad notification.
// @Tags squad
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body SquadChangeRequest true "Member ids to add and remove"
// @Success 200 {object} controllers.RosterChangeSuccessResponse "data contains the roster change"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 422 {object} helpers.APIResponse "error.code: constraint_violation"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/squad [patch]
func (c *RosterController) UpdateSquad(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req SquadChangeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	change, err := c.Squads.UpdateSquad(r.Context(), domain.SquadSelection{
		EventID:         eventID,
		SelectedBy:      userID,
		Add:             req.Add,
		Remove:          req.Remove,
		PreMatchMessage: req.PreMatchMessage,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if len(change.AddedUserIDs) > 0 {
		var extra map[string]string
		if req.PreMatchMessage != "" {
			extra = map[string]string{"message": req.PreMatchMessage}
		}
		c.notifyAll(r, c.eventFor(r, eventID), domain.TemplateSquadSelected, change.AddedUserIDs, extra)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, change)
}

// eventFor loads the event for notification variables. Nil skips notifications.
func (c *RosterController) eventFor(r *http.Request, eventID string) *domain.Event {
	event, err := c.Events.GetEvent(r.Context(), eventID)
	if err != nil {
		c.Logger.WarnContext(r.Context(), "notifications skipped", "event_id", eventID, "err", err)
		return nil
	}
	return event
}

func (c *RosterController) notifyAll(r *http.Request, event *domain.Event, templateKey string, userIDs []string, extra map[string]string) {
	notifier{logger: c.Logger, sender: c.Notifier}.notifyAll(r, event, templateKey, userIDs, extra)
}
