package fakenotificationrepo

import (
	"sort"
	"sync"
	"time"

	"github.com/ebikepoint/erp/internal/errors"
	"github.com/ebikepoint/erp/notifications"
	"github.com/google/uuid"
)

var _ notifications.Repo = (*FakeNotificationRepo)(nil)

type FakeNotificationRepo struct {
	notifications map[string]*notifications.Notification
	lock          sync.RWMutex
}

func NewFakeNotificationRepo() *FakeNotificationRepo {
	return &FakeNotificationRepo{notifications: make(map[string]*notifications.Notification)}
}

func (nr *FakeNotificationRepo) Create(notification *notifications.Notification) error {
	nr.lock.Lock()
	defer nr.lock.Unlock()

	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	nr.notifications[notification.ID] = notification
	return nil
}

func (nr *FakeNotificationRepo) Get(id string) (*notifications.Notification, error) {
	nr.lock.RLock()
	defer nr.lock.RUnlock()

	notification, ok := nr.notifications[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	copied := *notification
	return &copied, nil
}

func (nr *FakeNotificationRepo) ListByUser(userID string) ([]*notifications.Notification, error) {
	nr.lock.RLock()
	defer nr.lock.RUnlock()

	var matched []*notifications.Notification
	for _, notification := range nr.notifications {
		if notification.UserID == userID {
			copied := *notification
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, nil
}

func (nr *FakeNotificationRepo) MarkRead(id string) error {
	nr.lock.Lock()
	defer nr.lock.Unlock()

	notification, ok := nr.notifications[id]
	if !ok {
		return errors.ErrNotFound
	}
	notification.Read = true
	return nil
}

func (nr *FakeNotificationRepo) UnreadCount(userID string) (int, error) {
	nr.lock.RLock()
	defer nr.lock.RUnlock()

	count := 0
	for _, notification := range nr.notifications {
		if notification.UserID == userID && !notification.Read {
			count++
		}
	}
	return count, nil
}
