package storefront

import (
	"net/http"

	"github.com/ebikepoint/erp/notifications"
)

// ListNotificationsHandler returns the caller's notifications, newest
// first.
func (s *Server) ListNotificationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.deps.Notifications.ListByUser(s.currentUser(r).ID)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, list)
	}
}

// UnreadCountHandler returns the caller's unread notification count.
func (s *Server) UnreadCountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := s.deps.Notifications.UnreadCount(s.currentUser(r).ID)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, map[string]int{"unread": count})
	}
}

// MarkNotificationReadHandler marks one of the caller's notifications read.
func (s *Server) MarkNotificationReadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		notification, err := s.deps.Notifications.Get(id)
		if err != nil {
			s.domainError(w, err)
			return
		}
		if notification.UserID != s.currentUser(r).ID {
			writeError(w, http.StatusForbidden, "Not permitted for your role")
			return
		}

		if err := s.deps.Notifications.MarkRead(id); err != nil {
			s.domainError(w, err)
			return
		}
		writeMessage(w, http.StatusOK, "Notification marked read")
	}
}

// CreateNotificationHandler pushes a notification to a user (admin only).
func (s *Server) CreateNotificationHandler() http.HandlerFunc {
	type notifyRequest struct {
		UserID string `json:"userId"`
		Title  string `json:"title"`
		Body   string `json:"body"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req notifyRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.UserID == "" || req.Title == "" {
			writeValidationError(w, "Invalid notification", []string{"userId and title are required"})
			return
		}

		notification := &notifications.Notification{
			UserID: req.UserID,
			Title:  req.Title,
			Body:   req.Body,
		}
		if err := s.deps.Notifications.Create(notification); err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusCreated, notification)
	}
}
