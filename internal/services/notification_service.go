package services

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/artcampus-be/internal/apperror"
	"github.com/isdelr/artcampus-be/internal/database"
	"github.com/isdelr/artcampus-be/internal/models"
	"github.com/rs/zerolog/log"
)

// Notifier is the write side of the notification feed, used by the project,
// engagement and curator components.
type Notifier interface {
	Notify(recipientID string, n models.Notification) error
}

// Broadcaster pushes a payload to a user's live websocket clients.
// Implemented by the websocket hub; nil disables live push.
type Broadcaster interface {
	SendToUser(userID string, message []byte)
}

// NotificationServiceProvider defines the interface for notification services.
type NotificationServiceProvider interface {
	Notifier
	List(recipientID string) ([]models.Notification, error)
	MarkRead(recipientID, notificationID string) error
	MarkAllRead(recipientID string) error
	Delete(recipientID, notificationID string) error
	UnreadCount(recipientID string) int
}

// NotificationService maintains per-user notification feeds and their
// unread counters, and mirrors new entries to live subscribers.
type NotificationService struct {
	store *database.Store
	hub   Broadcaster
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(store *database.Store, hub Broadcaster) *NotificationService {
	return &NotificationService{store: store, hub: hub}
}

// Notify prepends a notification to the recipient's feed and refreshes the
// unread counter. The id, time and read flag are assigned here.
func (s *NotificationService) Notify(recipientID string, n models.Notification) error {
	n.ID = uuid.New().String()
	n.Time = time.Now().UTC()
	n.IsRead = false

	err := s.store.Update(func(tx *database.Tx) error {
		var feed []models.Notification
		tx.GetJSON(database.KeyNotifications(recipientID), &feed)

		feed = append([]models.Notification{n}, feed...)
		if err := tx.SetJSON(database.KeyNotifications(recipientID), feed); err != nil {
			return err
		}
		return saveUnreadCount(tx, recipientID, feed)
	})
	if err != nil {
		return err
	}

	s.push(recipientID, n)
	return nil
}

// List returns the recipient's feed, newest first.
func (s *NotificationService) List(recipientID string) ([]models.Notification, error) {
	var feed []models.Notification
	err := s.store.View(func(tx *database.Tx) error {
		tx.GetJSON(database.KeyNotifications(recipientID), &feed)
		return nil
	})
	return feed, err
}

// MarkRead marks a single notification as read.
func (s *NotificationService) MarkRead(recipientID, notificationID string) error {
	return s.mutateFeed(recipientID, func(feed []models.Notification) ([]models.Notification, error) {
		for i := range feed {
			if feed[i].ID == notificationID {
				feed[i].IsRead = true
				return feed, nil
			}
		}
		return nil, apperror.Wrap(apperror.ErrNotificationNotFound, "notification %s not found", notificationID)
	})
}

// MarkAllRead marks the whole feed as read.
func (s *NotificationService) MarkAllRead(recipientID string) error {
	return s.mutateFeed(recipientID, func(feed []models.Notification) ([]models.Notification, error) {
		for i := range feed {
			feed[i].IsRead = true
		}
		return feed, nil
	})
}

// Delete removes a notification from the feed.
func (s *NotificationService) Delete(recipientID, notificationID string) error {
	return s.mutateFeed(recipientID, func(feed []models.Notification) ([]models.Notification, error) {
		for i := range feed {
			if feed[i].ID == notificationID {
				return append(feed[:i], feed[i+1:]...), nil
			}
		}
		return nil, apperror.Wrap(apperror.ErrNotificationNotFound, "notification %s not found", notificationID)
	})
}

// UnreadCount reads the stored unread counter.
func (s *NotificationService) UnreadCount(recipientID string) int {
	count := 0
	s.store.View(func(tx *database.Tx) error {
		raw, ok := tx.Get(database.KeyUnreadNotifications(recipientID))
		if !ok {
			return nil
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			log.Warn().Str("value", raw).Msg("Corrupt unread counter, treating as zero")
			return nil
		}
		count = parsed
		return nil
	})
	return count
}

func (s *NotificationService) mutateFeed(recipientID string, mutate func([]models.Notification) ([]models.Notification, error)) error {
	return s.store.Update(func(tx *database.Tx) error {
		var feed []models.Notification
		tx.GetJSON(database.KeyNotifications(recipientID), &feed)

		feed, err := mutate(feed)
		if err != nil {
			return err
		}
		if err := tx.SetJSON(database.KeyNotifications(recipientID), feed); err != nil {
			return err
		}
		return saveUnreadCount(tx, recipientID, feed)
	})
}

func (s *NotificationService) push(recipientID string, n models.Notification) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"action":  "notification",
		"payload": n,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode notification push")
		return
	}
	s.hub.SendToUser(recipientID, payload)
}

func saveUnreadCount(tx *database.Tx, recipientID string, feed []models.Notification) error {
	unread := 0
	for _, n := range feed {
		if !n.IsRead {
			unread++
		}
	}
	return tx.Set(database.KeyUnreadNotifications(recipientID), strconv.Itoa(unread))
}
