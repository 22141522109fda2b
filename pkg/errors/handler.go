package errors

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// AlertNotifier delivers best-effort operational alerts for unexpected
// failures. Implementations must never panic; errors from the notifier are
// logged and swallowed so they cannot mask the original failure.
type AlertNotifier interface {
	NotifyError(ctx context.Context, source string, err error) error
}

// ErrorResponse is the wire format for failed requests.
type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// ErrorHandler maps domain errors to HTTP responses. Internal errors get a
// generic message on the wire; full detail stays in the logs.
type ErrorHandler struct {
	logger *zap.Logger
	alerts AlertNotifier
	debug  bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger, alerts AlertNotifier, debug bool) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
		alerts: alerts,
		debug:  debug,
	}
}

// Handle processes an error and sends an HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	status := http.StatusInternalServerError
	message := "internal error"

	appErr := GetAppError(err)
	if appErr != nil && appErr.HTTPStatus != 0 {
		status = appErr.HTTPStatus
	}
	if appErr != nil && status < http.StatusInternalServerError {
		message = appErr.Message
	} else if h.debug {
		message = err.Error()
	}

	h.logError(r, err, status)

	if status >= http.StatusInternalServerError {
		h.notify(r.Context(), r.URL.Path, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{OK: false, Message: message})
}

// notify pushes an alert to the operational channel. A failure here is
// logged and swallowed; it must never re-raise into the request path.
func (h *ErrorHandler) notify(ctx context.Context, source string, cause error) {
	if h.alerts == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("alert notifier panicked", zap.Any("panic", rec))
		}
	}()
	if err := h.alerts.NotifyError(ctx, source, cause); err != nil {
		h.logger.Error("failed to send ops alert", zap.Error(err), zap.String("source", source))
	}
}

func (h *ErrorHandler) logError(r *http.Request, err error, status int) {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
	if appErr := GetAppError(err); appErr != nil {
		fields = append(fields, zap.String("errorType", string(appErr.Type)))
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Warn("request rejected", fields...)
	}
}
