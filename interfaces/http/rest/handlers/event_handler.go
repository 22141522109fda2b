package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"handwash-backend/application/services"
	"handwash-backend/pkg/auth"
	"handwash-backend/pkg/common"
	apperrors "handwash-backend/pkg/errors"
	"handwash-backend/pkg/utils"

	"go.uber.org/zap"
)

// EventHandler handles handwash-event HTTP requests
type EventHandler struct {
	events *services.EventService
	errs   *apperrors.ErrorHandler
	logger *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(events *services.EventService, errs *apperrors.ErrorHandler, logger *zap.Logger) *EventHandler {
	return &EventHandler{events: events, errs: errs, logger: logger}
}

// CreateEventRequest is the body of POST /handwash/events
type CreateEventRequest struct {
	FamilyID    string `json:"familyId" validate:"required"`
	Mode        string `json:"mode" validate:"omitempty,max=50"`
	DurationSec int    `json:"durationSec" validate:"omitempty,min=0,max=3600"`
	Note        string `json:"note"`
}

// Create handles POST /handwash/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	event, err := h.events.Append(r.Context(), claims.Sub, req.FamilyID, services.AppendInput{
		Mode:        req.Mode,
		DurationSec: req.DurationSec,
		Note:        req.Note,
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondOK(w, map[string]interface{}{"event": event})
}

// List handles GET /handwash/events. Range parameters from/to are unix
// milliseconds; defaults cover the last seven days.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	q := r.URL.Query()
	familyID := q.Get("familyId")
	if familyID == "" {
		h.errs.Handle(w, r, apperrors.NewValidationError("familyId is required"))
		return
	}

	query := services.EventQuery{CreatedBy: q.Get("createdBy")}
	if v := q.Get("from"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.errs.Handle(w, r, apperrors.NewValidationError("from must be unix milliseconds"))
			return
		}
		query.FromMs = ms
	}
	if v := q.Get("to"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.errs.Handle(w, r, apperrors.NewValidationError("to must be unix milliseconds"))
			return
		}
		query.ToMs = ms
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.errs.Handle(w, r, apperrors.NewValidationError("limit must be an integer"))
			return
		}
		query.Limit = n
	}
	if v := q.Get("asc"); v != "" {
		query.Ascending, _ = strconv.ParseBool(v)
	}

	events, err := h.events.Query(r.Context(), claims.Sub, familyID, query)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondOK(w, map[string]interface{}{"events": events})
}
