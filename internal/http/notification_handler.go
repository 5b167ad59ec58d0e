package httpapi

import (
	"context"
	"net/http"

	"realtor-site/internal/service"

	"go.uber.org/zap"
)

type SoldNotifier interface {
	SendSold(ctx context.Context, req service.SoldNotificationRequest) error
}

type NotificationHandler struct {
	notifier SoldNotifier
	logger   *zap.Logger
}

func NewNotificationHandler(notifier SoldNotifier, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifier: notifier, logger: logger}
}

// Sold POST /api/sold-notification
func (h *NotificationHandler) Sold(w http.ResponseWriter, r *http.Request) {
	var req service.SoldNotificationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.notifier.SendSold(r.Context(), req); err != nil {
		writeServiceError(w, h.logger, "SendSoldNotification", err)
		return
	}
	writeJSON(w, http.StatusOK, Done("Sold notification sent"))
}
