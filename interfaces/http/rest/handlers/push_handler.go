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

// PushHandler handles push subscription and manual-nudge HTTP requests
type PushHandler struct {
	push          *services.PushService
	notifications *services.NotificationService
	errs          *apperrors.ErrorHandler
	logger        *zap.Logger
}

// NewPushHandler creates a new push handler
func NewPushHandler(push *services.PushService, notifications *services.NotificationService, errs *apperrors.ErrorHandler, logger *zap.Logger) *PushHandler {
	return &PushHandler{push: push, notifications: notifications, errs: errs, logger: logger}
}

// SubscribeRequest is the body of POST /push/subscribe. The subscription
// shape mirrors the browser PushSubscription.toJSON() output.
type SubscribeRequest struct {
	FamilyID     string `json:"familyId" validate:"required"`
	Subscription struct {
		Endpoint string `json:"endpoint" validate:"required,url"`
		Keys     struct {
			P256dh string `json:"p256dh" validate:"required"`
			Auth   string `json:"auth" validate:"required"`
		} `json:"keys"`
	} `json:"subscription"`
	UserAgent string `json:"userAgent" validate:"omitempty,max=300"`
}

// SendRequest is the body of POST /push/send
type SendRequest struct {
	FamilyID  string `json:"familyId" validate:"required"`
	TargetSub string `json:"targetSub" validate:"required"`
	Message   string `json:"message" validate:"omitempty,max=200"`
}

// Subscribe handles POST /push/subscribe
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = r.UserAgent()
	}
	err = h.push.Subscribe(r.Context(), claims.Sub, req.FamilyID, services.SubscriptionInput{
		Endpoint: req.Subscription.Endpoint,
		P256dh:   req.Subscription.Keys.P256dh,
		Auth:     req.Subscription.Keys.Auth,
	}, userAgent)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondOK(w, map[string]interface{}{"message": "subscribed"})
}

// Send handles POST /push/send. Zero deliveries is a success: the target
// simply has no active subscription.
func (h *PushHandler) Send(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	result, err := h.notifications.SendToUser(r.Context(), claims.Sub, req.FamilyID, req.TargetSub, req.Message)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondOK(w, map[string]interface{}{
		"sent":   result.Sent,
		"failed": result.Failed,
	})
}
