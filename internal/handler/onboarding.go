package handler

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-gatekeeper/internal/logger"
	"tg-gatekeeper/internal/service"
)

// recheckAPI is the slice of the bot API the join re-check goes through.
// *telego.Bot satisfies it.
type recheckAPI interface {
	service.ChatMemberAPI
	identityAPI
	AnswerCallbackQuery(ctx context.Context, params *telego.AnswerCallbackQueryParams) error
	EditMessageText(ctx context.Context, params *telego.EditMessageTextParams) (*telego.Message, error)
}

// checkJoinCallbackData is the callback payload of the "I Have Joined" button.
const checkJoinCallbackData = "check_join"

const (
	grantedText = "🌟 <b>Welcome!</b>\n\n" +
		"You are a member of our main channel and can now use the bot.\n\n" +
		"Add me to a group or channel using the buttons below:"
	gatedText = "🔒 <b>Access Required</b>\n\n" +
		"To use this bot, you must first join our main channel.\n\n" +
		"Please join the channel and then click 'I Have Joined ✅'."
	recheckGrantedText = "✅ <b>Thank you for joining!</b>\n" +
		"You can now add me to a group or channel:"
	recheckFailedText = "❌ You haven't joined the channel yet. Please join and try again."
)

// handleStartCommand runs the private onboarding flow: track the user, replay
// any deferred notifications, then render the gated or granted state.
func handleStartCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	if message.Chat.Type != telego.ChatTypePrivate || message.From == nil {
		return nil
	}

	user := message.From
	service.TrackUser(user)

	// Replay is at-most-once: a message that fails to send now is gone.
	for _, text := range service.TakePendingNotifications(user.ID) {
		_, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
			ChatID:             telego.ChatID{ID: user.ID},
			Text:               text,
			LinkPreviewOptions: &telego.LinkPreviewOptions{IsDisabled: true},
		})
		if err != nil {
			logger.Warningf("Failed to replay pending notification to user %d: %v", user.ID, err)
		}
	}

	botUsername, err := getBotUsername(ctx.Context(), bot)
	if err != nil {
		return err
	}

	var text string
	var keyboard *telego.InlineKeyboardMarkup
	if service.IsChannelMember(ctx.Context(), bot, user.ID) {
		text = grantedText
		keyboard = grantedKeyboard(botUsername)
	} else {
		text = gatedText
		keyboard = gatedKeyboard(globalConfig.Bot.MainChannel)
	}

	_, err = bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: message.Chat.ID},
		Text:        text,
		ParseMode:   "HTML",
		ReplyMarkup: keyboard,
	})
	return err
}

// handleCheckJoinCallback re-runs the membership check from the gated state.
// On success the gated message is edited in place; otherwise the user gets a
// transient alert and the message stays as it is.
func handleCheckJoinCallback(ctx context.Context, api recheckAPI, query telego.CallbackQuery) error {
	user := query.From
	service.TrackUser(&user)

	if !service.IsChannelMember(ctx, api, user.ID) {
		return api.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{
			CallbackQueryID: query.ID,
			Text:            recheckFailedText,
			ShowAlert:       true,
		})
	}

	if err := api.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
	}); err != nil {
		logger.Warningf("Failed to answer callback query: %v", err)
	}

	botUsername, err := getBotUsername(ctx, api)
	if err != nil {
		return err
	}

	if query.Message == nil {
		return nil
	}

	_, err = api.EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:      telego.ChatID{ID: query.Message.GetChat().ID},
		MessageID:   query.Message.GetMessageID(),
		Text:        recheckGrantedText,
		ParseMode:   "HTML",
		ReplyMarkup: grantedKeyboard(botUsername),
	})
	return err
}

func grantedKeyboard(botUsername string) *telego.InlineKeyboardMarkup {
	return &telego.InlineKeyboardMarkup{
		InlineKeyboard: [][]telego.InlineKeyboardButton{{
			{
				Text: "➕ Add to Group ➕",
				URL:  fmt.Sprintf("https://t.me/%s?startgroup=true", botUsername),
			},
			{
				Text: "📢 Add to Channel 📢",
				URL:  fmt.Sprintf("https://t.me/%s?startchannel=true", botUsername),
			},
		}},
	}
}

func gatedKeyboard(channel string) *telego.InlineKeyboardMarkup {
	return &telego.InlineKeyboardMarkup{
		InlineKeyboard: [][]telego.InlineKeyboardButton{
			{{
				Text: fmt.Sprintf("1. Join @%s", channel),
				URL:  fmt.Sprintf("https://t.me/%s", channel),
			}},
			{{
				Text:         "2. I Have Joined ✅",
				CallbackData: checkJoinCallbackData,
			}},
		},
	}
}
