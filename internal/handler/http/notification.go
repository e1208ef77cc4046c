package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

const streamKeepalive = 30 * time.Second

type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	UnreadCount(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
	MarkAllRead(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	StreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type NotificationHandlerImpl struct {
	notificationService notification.Service
	jwtService          jwt.Service
}

func NewNotificationHandler(notificationService notification.Service, jwtService jwt.Service) NotificationHandler {
	return &NotificationHandlerImpl{
		notificationService: notificationService,
		jwtService:          jwtService,
	}
}

// callerID returns the signed-in user or writes a 401.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	p, err := user.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return "", false
	}
	return p.UserID, true
}

// List implements NotificationHandler. ?unread=true limits to unread items.
func (h *NotificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	inbox, err := h.notificationService.Inbox(r.Context(), userID, notification.ListFilter{
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
		UnreadOnly: r.URL.Query().Get("unread") == "true",
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, inbox, inbox.Page, inbox.Limit, inbox.Total, inbox.TotalPages())
}

func (h *NotificationHandlerImpl) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, notification.UnreadResponse{Unread: count})
}

func (h *NotificationHandlerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req notification.MarkReadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.notificationService.MarkRead(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Notifications marked as read", notification.MarkReadResponse{Updated: updated})
}

func (h *NotificationHandlerImpl) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkAllRead(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "All notifications marked as read", notification.MarkReadResponse{Updated: updated})
}

func (h *NotificationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.notificationService.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Notification deleted", nil)
}

// StreamToken issues the short-lived token the EventSource connects with.
func (h *NotificationHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(userID)
	if err != nil {
		slog.Error("Failed to generate stream token", "user_id", userID, "error", err)
		response.InternalServerError(w, "Failed to generate stream token")
		return
	}
	response.Success(w, notification.StreamTokenResponse{Token: token, ExpiresIn: expiresIn})
}

func writeEvent(w http.ResponseWriter, f http.Flusher, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	f.Flush()
	return nil
}

// Stream implements NotificationHandler. EventSource cannot set headers, so
// the stream token rides in ?token=.
func (h *NotificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	userID, err := h.jwtService.ValidateSSEToken(r.URL.Query().Get("token"))
	if err != nil {
		response.Unauthorized(w, "Invalid or missing stream token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.notificationService.Subscribe(userID)
	defer cleanup()

	if err := writeEvent(w, flusher, "connected", map[string]string{"user_id": userID}); err != nil {
		return
	}

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case ev, open := <-events:
			if !open {
				return
			}
			if err := writeEvent(w, flusher, ev.Event, ev.Data); err != nil {
				slog.Debug("Stream closed while writing", "user_id", userID, "error", err)
				return
			}
		case t := <-keepalive.C:
			if err := writeEvent(w, flusher, "ping", map[string]int64{"timestamp": t.Unix()}); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}
