package handlers

import (
	"encoding/json"
	"net/http"

	"handwash-backend/application/services"
	"handwash-backend/pkg/auth"
	"handwash-backend/pkg/common"
	apperrors "handwash-backend/pkg/errors"
	"handwash-backend/pkg/utils"

	"go.uber.org/zap"
)

// FamilyHandler handles family-related HTTP requests
type FamilyHandler struct {
	families *services.FamilyService
	errs     *apperrors.ErrorHandler
	logger   *zap.Logger
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(families *services.FamilyService, errs *apperrors.ErrorHandler, logger *zap.Logger) *FamilyHandler {
	return &FamilyHandler{families: families, errs: errs, logger: logger}
}

// CreateFamilyRequest is the body of POST /families
type CreateFamilyRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// JoinFamilyRequest is the body of POST /families/join
type JoinFamilyRequest struct {
	InviteCode string `json:"inviteCode" validate:"required"`
}

// FamilyIDRequest is the body of leave/delete requests
type FamilyIDRequest struct {
	FamilyID string `json:"familyId" validate:"required"`
}

// CreateFamily handles POST /families
func (h *FamilyHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	var req CreateFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	result, err := h.families.CreateFamily(r.Context(), claims.Sub, req.Name)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondOK(w, map[string]interface{}{
		"familyId":   result.FamilyID,
		"name":       result.Name,
		"inviteCode": result.InviteCode,
	})
}

// ListFamilies handles GET /families
func (h *FamilyHandler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	families, err := h.families.ListFamilies(r.Context(), claims.Sub)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondOK(w, map[string]interface{}{"families": families})
}

// JoinFamily handles POST /families/join
func (h *FamilyHandler) JoinFamily(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	var req JoinFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	familyID, err := h.families.JoinFamily(r.Context(), claims.Sub, req.InviteCode)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondOK(w, map[string]interface{}{"familyId": familyID})
}

// LeaveFamily handles POST /families/leave
func (h *FamilyHandler) LeaveFamily(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	var req FamilyIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	if err := h.families.LeaveFamily(r.Context(), claims.Sub, req.FamilyID); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondOK(w, map[string]interface{}{"message": "left the family"})
}

// DeleteFamily handles POST /families/delete
func (h *FamilyHandler) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	var req FamilyIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	if err := h.families.DeleteFamily(r.Context(), claims.Sub, req.FamilyID); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondOK(w, map[string]interface{}{"message": "family deleted"})
}

// ListMembers handles GET /families/members. The clear-form invite code is
// never persisted, so no path returns it after creation; owners regenerate
// by recreating the family.
func (h *FamilyHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	familyID := r.URL.Query().Get("familyId")
	if familyID == "" {
		h.errs.Handle(w, r, apperrors.NewValidationError("familyId is required"))
		return
	}

	list, err := h.families.ListMembers(r.Context(), claims.Sub, familyID)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondOK(w, map[string]interface{}{
		"isOwner": list.IsOwner,
		"members": list.Members,
	})
}
