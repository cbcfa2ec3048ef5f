package handlers

import (
	"net/http"

	"github.com/askelund/routine-manager/internal/services"
	"github.com/askelund/routine-manager/pkg/logger"
	"github.com/askelund/routine-manager/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationHandler struct {
	Service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

// GET /notifications
//
// Returns the aggregated feed: unread and read partitions plus the unread
// count. A failure here is an error response, never an empty feed; the
// client must be able to tell "no notifications" from "could not fetch".
func (h *NotificationHandler) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	feed, err := h.Service.ListNotifications(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to aggregate notifications for user %s: %v", claims.UserID, err)
		respondError(w, err, "Failed to get notifications")
		return
	}

	writeJSON(w, http.StatusOK, feed)
}

// GET /notifications/unread-count
func (h *NotificationHandler) UnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	count, err := h.Service.UnreadCount(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to count unread notifications for user %s: %v", claims.UserID, err)
		respondError(w, err, "Failed to get unread count")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"unread_count": count})
}

// POST /notifications/{type}/{id}/read
//
// Idempotent: marking an already-read notification succeeds without a
// second record. On failure the client keeps the item rendered as unread.
func (h *NotificationHandler) MarkAsReadHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	notifID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.MarkRead(r.Context(), userID, vars["type"], notifID); err != nil {
		logger.Log.Errorf("Failed to mark notification as read: %v", err)
		respondError(w, err, "Failed to mark as read")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}
