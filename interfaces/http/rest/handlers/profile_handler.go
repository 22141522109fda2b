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

// ProfileHandler handles identity and profile HTTP requests
type ProfileHandler struct {
	families *services.FamilyService
	errs     *apperrors.ErrorHandler
	logger   *zap.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(families *services.FamilyService, errs *apperrors.ErrorHandler, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{families: families, errs: errs, logger: logger}
}

// UpdateProfileRequest is the body of PUT /profile
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" validate:"required"`
}

// Me handles GET /me: the caller's claims, display name and family list in
// one round trip, so the client can boot without chaining requests.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
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

	resp := map[string]interface{}{
		"sub":      claims.Sub,
		"email":    claims.Email,
		"families": families,
	}
	if profile, err := h.families.GetProfile(r.Context(), claims.Sub); err == nil && profile != nil {
		resp["displayName"] = profile.DisplayName
	}

	common.RespondOK(w, resp)
}

// UpdateProfile handles PUT /profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	displayName, err := h.families.UpdateProfile(r.Context(), claims.Sub, req.DisplayName)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondOK(w, map[string]interface{}{"displayName": displayName})
}
