package handler

import (
	"context"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
)

const accessDeniedText = "❌ Access denied."

// routeCommand dispatches bot commands. It returns true when the message was
// a command, whether or not the command succeeded.
func routeCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) (bool, error) {
	switch {
	case message.Text == "/start" || strings.HasPrefix(message.Text, "/start "):
		return true, handleStartCommand(ctx, bot, message)
	case message.Text == "/admin":
		return true, handleAdminCommand(ctx.Context(), bot, message)
	case message.Text == "/cancel_broadcast":
		return true, handleCancelBroadcastCommand(ctx.Context(), bot, message)
	case message.Text == "/export_data":
		return true, handleExportCommand(ctx.Context(), bot, message)
	case strings.HasPrefix(message.Text, "/"):
		// Unknown commands are dropped, but still count as commands so the
		// reaction engine never touches them.
		return true, nil
	}
	return false, nil
}

// rejectNonAdmin sends the fixed denial when the sender is not on the admin
// allow-list and reports whether the command was rejected. It runs before any
// store access.
func rejectNonAdmin(ctx context.Context, api panelAPI, message telego.Message) (bool, error) {
	if message.From != nil && globalConfig.IsAdmin(message.From.ID) {
		return false, nil
	}
	_, err := api.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: message.Chat.ID},
		Text:   accessDeniedText,
	})
	return true, err
}

// handleAdminCommand renders the admin panel.
func handleAdminCommand(ctx context.Context, api panelAPI, message telego.Message) error {
	if denied, err := rejectNonAdmin(ctx, api, message); denied {
		return err
	}
	return sendAdminPanel(ctx, api, message.Chat.ID)
}

// handleCancelBroadcastCommand disarms broadcast mode for the invoking admin.
func handleCancelBroadcastCommand(ctx context.Context, api panelAPI, message telego.Message) error {
	if denied, err := rejectNonAdmin(ctx, api, message); denied {
		return err
	}

	broadcasts.Disarm(message.From.ID)
	_, err := api.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: message.Chat.ID},
		Text:   "🛑 Broadcast cancelled.",
	})
	return err
}

// handleExportCommand sends the full data export to the invoking admin.
func handleExportCommand(ctx context.Context, api panelAPI, message telego.Message) error {
	if denied, err := rejectNonAdmin(ctx, api, message); denied {
		return err
	}
	return sendExport(ctx, api, message.Chat.ID)
}
