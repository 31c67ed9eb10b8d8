// Package notifications stores per-user in-app notifications.
package notifications

import "time"

// Notification is one message shown to a user.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repo abstracts notification storage.
type Repo interface {
	Create(notification *Notification) error
	Get(id string) (*Notification, error)
	ListByUser(userID string) ([]*Notification, error)
	MarkRead(id string) error
	UnreadCount(userID string) (int, error)
}
