package notification

import (
	"time"
)

type NotificationType string

const (
	TypeLeaveRequest     NotificationType = "leave_request"
	TypeLeaveApproved    NotificationType = "leave_approved"
	TypeLeaveRejected    NotificationType = "leave_rejected"
	TypeDocumentRequest  NotificationType = "document_request"
	TypeDocumentApproved NotificationType = "document_approved"
	TypeDocumentRejected NotificationType = "document_rejected"
	TypeCheckInReminder  NotificationType = "checkin_reminder"
	TypeAnnouncement     NotificationType = "announcement"
	TypeAccountUpdated   NotificationType = "account_updated"
)

// Notification is a message addressed to one user.
type Notification struct {
	ID        string
	UserID    string // recipient
	Type      NotificationType
	Title     string
	Message   string
	RelatedID *string // leave/document request or announcement id
	Read      bool
	ReadAt    *time.Time
	CreatedAt time.Time
}

// New builds an unread notification stamped at now.
func New(id string, req CreateNotificationRequest, now time.Time) Notification {
	return Notification{
		ID:        id,
		UserID:    req.UserID,
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		RelatedID: req.RelatedID,
		CreatedAt: now,
	}
}
