package service

import (
	"time"

	"github.com/mymmrac/telego"

	"tg-gatekeeper/internal/logger"
	"tg-gatekeeper/internal/models"
)

// TrackUser upserts the user record, stamping last-seen. Store failures are
// logged and swallowed: tracking is best-effort and must never break the
// handler that observed the user.
func TrackUser(user *telego.User) {
	if user == nil || userRepository == nil {
		return
	}

	now := time.Now().UTC()
	record := &models.User{
		ID:        user.ID,
		FirstName: user.FirstName,
		Username:  user.Username,
		IsBot:     user.IsBot,
		FirstSeen: now,
		LastSeen:  now,
	}

	if err := userRepository.Upsert(record); err != nil {
		logger.Warningf("DB error tracking user %d: %v", user.ID, err)
	}
}

// TrackChat upserts the chat record for a chat the bot was added to.
func TrackChat(chatID int64, title, kind string, adderID int64) {
	if chatRepository == nil {
		return
	}

	now := time.Now().UTC()
	record := &models.Chat{
		ID:         chatID,
		Title:      title,
		Kind:       kind,
		AdderID:    adderID,
		AddedAt:    now,
		LastActive: now,
	}

	if err := chatRepository.Upsert(record); err != nil {
		logger.Warningf("DB error tracking chat %d: %v", chatID, err)
	}
}

// TouchChat bumps the chat's last-active timestamp.
func TouchChat(chatID int64) {
	if chatRepository == nil {
		return
	}
	if err := chatRepository.Touch(chatID, time.Now().UTC()); err != nil {
		logger.Warningf("DB error touching chat %d: %v", chatID, err)
	}
}

// QueuePendingNotification stores a message for replay on the user's next
// private session start.
func QueuePendingNotification(userID int64, message string) {
	if pendingRepository == nil {
		return
	}
	if err := pendingRepository.Append(userID, message); err != nil {
		logger.Warningf("DB error queueing notification for user %d: %v", userID, err)
	}
}

// TakePendingNotifications atomically fetches and clears the user's queued
// messages. On store error it returns an empty slice; the queue keeps its
// contents for a later attempt.
func TakePendingNotifications(userID int64) []string {
	if pendingRepository == nil {
		return nil
	}
	messages, err := pendingRepository.TakeAll(userID)
	if err != nil {
		logger.Warningf("DB error fetching notifications for user %d: %v", userID, err)
		return nil
	}
	return messages
}

// CountUsers returns the number of tracked users.
func CountUsers() (int64, error) {
	return userRepository.Count()
}

// CountChats returns the number of tracked chats.
func CountChats() (int64, error) {
	return chatRepository.Count()
}

// RecentUsers returns up to limit users by most recent activity.
func RecentUsers(limit int) ([]models.User, error) {
	return userRepository.ListRecent(limit)
}

// RecentChats returns up to limit chats by most recent activity.
func RecentChats(limit int) ([]models.Chat, error) {
	return chatRepository.ListRecent(limit)
}

// AllUsers returns every tracked user.
func AllUsers() ([]models.User, error) {
	return userRepository.All()
}

// AllChats returns every tracked chat.
func AllChats() ([]models.Chat, error) {
	return chatRepository.All()
}

// AllUserIDs returns the IDs of every tracked user, the broadcast audience.
func AllUserIDs() ([]int64, error) {
	return userRepository.AllIDs()
}
