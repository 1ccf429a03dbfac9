package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"tg-gatekeeper/internal/logger"
	"tg-gatekeeper/internal/models"
	"tg-gatekeeper/internal/service"
)

// AdminAction is the closed set of admin panel callback actions.
type AdminAction string

const (
	ActionBroadcast AdminAction = "broadcast"
	ActionViewUsers AdminAction = "users"
	ActionViewChats AdminAction = "chats"
	ActionExport    AdminAction = "export"
	ActionBack      AdminAction = "back"
)

const adminActionPrefix = "admin:"

// listLimit caps the user/chat listings at the top 20 by recent activity.
const listLimit = 20

const exportFileName = "users_chats_export.json"

// panelAPI is the slice of the bot API the admin surfaces go through.
// *telego.Bot satisfies it.
type panelAPI interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	SendDocument(ctx context.Context, params *telego.SendDocumentParams) (*telego.Message, error)
}

// CallbackData renders the action as inline-button callback payload.
func (a AdminAction) CallbackData() string {
	return adminActionPrefix + string(a)
}

// ParseAdminAction decodes callback data into an AdminAction. Unknown or
// non-admin payloads report false.
func ParseAdminAction(data string) (AdminAction, bool) {
	if !strings.HasPrefix(data, adminActionPrefix) {
		return "", false
	}
	action := AdminAction(strings.TrimPrefix(data, adminActionPrefix))
	switch action {
	case ActionBroadcast, ActionViewUsers, ActionViewChats, ActionExport, ActionBack:
		return action, true
	}
	return "", false
}

// handleCallbackQuery routes inline-button callbacks.
func handleCallbackQuery(ctx *th.Context, bot *telego.Bot, query telego.CallbackQuery) error {
	if query.Data == checkJoinCallbackData {
		return handleCheckJoinCallback(ctx.Context(), bot, query)
	}

	action, ok := ParseAdminAction(query.Data)
	if !ok {
		return nil
	}

	if err := bot.AnswerCallbackQuery(ctx.Context(), &telego.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
	}); err != nil {
		logger.Warningf("Failed to answer callback query: %v", err)
	}

	if query.Message == nil {
		return nil
	}
	chatID := query.Message.GetChat().ID

	if !globalConfig.IsAdmin(query.From.ID) {
		_, err := bot.EditMessageText(ctx.Context(), &telego.EditMessageTextParams{
			ChatID:    telego.ChatID{ID: chatID},
			MessageID: query.Message.GetMessageID(),
			Text:      "❌ Access expired.",
		})
		return err
	}

	switch action {
	case ActionBroadcast:
		broadcasts.Arm(query.From.ID)
		_, err := bot.EditMessageText(ctx.Context(), &telego.EditMessageTextParams{
			ChatID:      telego.ChatID{ID: chatID},
			MessageID:   query.Message.GetMessageID(),
			Text:        "📡 Broadcast mode activated.\nSend the message you want to broadcast now (or /cancel_broadcast).",
			ReplyMarkup: backKeyboard(),
		})
		return err
	case ActionViewUsers:
		return sendUserList(ctx.Context(), bot, chatID)
	case ActionViewChats:
		return sendChatList(ctx.Context(), bot, chatID)
	case ActionExport:
		return sendExport(ctx.Context(), bot, chatID)
	case ActionBack:
		// Re-arming on back is not wanted: leaving the broadcast prompt
		// through the panel cancels the pending broadcast.
		broadcasts.Disarm(query.From.ID)
		return sendAdminPanel(ctx.Context(), bot, chatID)
	}
	return nil
}

// sendAdminPanel renders the aggregate counts and the action menu.
func sendAdminPanel(ctx context.Context, api panelAPI, chatID int64) error {
	userCount := "Err"
	if n, err := service.CountUsers(); err == nil {
		userCount = fmt.Sprintf("%d", n)
	} else {
		logger.Warningf("DB error counting users: %v", err)
	}
	chatCount := "Err"
	if n, err := service.CountChats(); err == nil {
		chatCount = fmt.Sprintf("%d", n)
	} else {
		logger.Warningf("DB error counting chats: %v", err)
	}

	text := fmt.Sprintf("👑 <b>Admin Panel</b>\n\n"+
		"👥 Total Users: <code>%s</code>\n"+
		"📢 Total Chats/Channels: <code>%s</code>\n\n"+
		"Select an action below:", userCount, chatCount)

	keyboard := &telego.InlineKeyboardMarkup{
		InlineKeyboard: [][]telego.InlineKeyboardButton{
			{{Text: "📨 Broadcast Message", CallbackData: ActionBroadcast.CallbackData()}},
			{{Text: "📊 View User List", CallbackData: ActionViewUsers.CallbackData()}},
			{{Text: "🏢 View Chat List", CallbackData: ActionViewChats.CallbackData()}},
			{{Text: "📁 Export Data", CallbackData: ActionExport.CallbackData()}},
		},
	}

	_, err := api.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: chatID},
		Text:        text,
		ParseMode:   "HTML",
		ReplyMarkup: keyboard,
	})
	return err
}

func sendUserList(ctx context.Context, api panelAPI, chatID int64) error {
	users, err := service.RecentUsers(listLimit)
	if err != nil {
		logger.Errorf("DB error fetching user list: %v", err)
		return sendDatabaseError(ctx, api, chatID)
	}

	lines := make([]string, 0, len(users))
	for _, u := range users {
		handle := "No User"
		if u.Username != "" {
			handle = "@" + u.Username
		}
		lines = append(lines, fmt.Sprintf("👤 %s (%s)\nID: <code>%d</code> | Seen: <code>%s</code>",
			u.FirstName, handle, u.ID, truncateTimestamp(u.LastSeen)))
	}

	return sendList(ctx, api, chatID, "User Details (Top 20 Active)", lines)
}

func sendChatList(ctx context.Context, api panelAPI, chatID int64) error {
	chats, err := service.RecentChats(listLimit)
	if err != nil {
		logger.Errorf("DB error fetching chat list: %v", err)
		return sendDatabaseError(ctx, api, chatID)
	}

	lines := make([]string, 0, len(chats))
	for _, c := range chats {
		lines = append(lines, fmt.Sprintf("%s (%s)\nID: <code>%d</code>", c.Title, c.Kind, c.ID))
	}

	return sendList(ctx, api, chatID, "Chats (Top 20 Active)", lines)
}

func sendList(ctx context.Context, api panelAPI, chatID int64, title string, lines []string) error {
	text := fmt.Sprintf("📊 %s\n\n%s", title, strings.Join(lines, "\n---\n"))
	_, err := api.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: chatID},
		Text:        text,
		ParseMode:   "HTML",
		ReplyMarkup: backKeyboard(),
	})
	return err
}

// exported record shapes: every persisted field, timestamps as RFC 3339 text
type exportedUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
	IsBot     bool   `json:"is_bot"`
	FirstSeen string `json:"first_seen"`
	LastSeen  string `json:"last_seen"`
}

type exportedChat struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Kind       string `json:"kind"`
	AdderID    int64  `json:"adder_id"`
	AddedAt    string `json:"added_at"`
	LastActive string `json:"last_active"`
}

type exportDocument struct {
	Users []exportedUser `json:"users"`
	Chats []exportedChat `json:"chats"`
}

// buildExport serializes the full user and chat sets to an indented JSON
// document with ISO-8601 timestamps.
func buildExport(users []models.User, chats []models.Chat) ([]byte, error) {
	doc := exportDocument{
		Users: make([]exportedUser, 0, len(users)),
		Chats: make([]exportedChat, 0, len(chats)),
	}
	for _, u := range users {
		doc.Users = append(doc.Users, exportedUser{
			ID:        u.ID,
			FirstName: u.FirstName,
			Username:  u.Username,
			IsBot:     u.IsBot,
			FirstSeen: u.FirstSeen.UTC().Format(time.RFC3339),
			LastSeen:  u.LastSeen.UTC().Format(time.RFC3339),
		})
	}
	for _, c := range chats {
		doc.Chats = append(doc.Chats, exportedChat{
			ID:         c.ID,
			Title:      c.Title,
			Kind:       c.Kind,
			AdderID:    c.AdderID,
			AddedAt:    c.AddedAt.UTC().Format(time.RFC3339),
			LastActive: c.LastActive.UTC().Format(time.RFC3339),
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

// sendExport delivers the full data export as a document attachment.
func sendExport(ctx context.Context, api panelAPI, chatID int64) error {
	users, err := service.AllUsers()
	if err != nil {
		logger.Errorf("DB error exporting users: %v", err)
		return sendExportError(ctx, api, chatID)
	}
	chats, err := service.AllChats()
	if err != nil {
		logger.Errorf("DB error exporting chats: %v", err)
		return sendExportError(ctx, api, chatID)
	}

	data, err := buildExport(users, chats)
	if err != nil {
		logger.Errorf("Error serializing export: %v", err)
		return sendExportError(ctx, api, chatID)
	}

	_, err = api.SendDocument(ctx, &telego.SendDocumentParams{
		ChatID:   telego.ChatID{ID: chatID},
		Document: tu.File(tu.NameReader(bytes.NewReader(data), exportFileName)),
	})
	if err != nil {
		logger.Errorf("Error sending export document: %v", err)
		return sendExportError(ctx, api, chatID)
	}
	return nil
}

func sendDatabaseError(ctx context.Context, api panelAPI, chatID int64) error {
	_, err := api.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   "❌ Database error.",
	})
	return err
}

func sendExportError(ctx context.Context, api panelAPI, chatID int64) error {
	_, err := api.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   "❌ Export failed.",
	})
	return err
}

func backKeyboard() *telego.InlineKeyboardMarkup {
	return &telego.InlineKeyboardMarkup{
		InlineKeyboard: [][]telego.InlineKeyboardButton{
			{{Text: "⬅️ Back", CallbackData: ActionBack.CallbackData()}},
		},
	}
}

// truncateTimestamp renders a last-seen value the way the listings show it:
// date plus hours and minutes.
func truncateTimestamp(t time.Time) string {
	s := t.UTC().Format(time.RFC3339)
	if len(s) > 16 {
		s = s[:16]
	}
	return s
}
