package handler

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-gatekeeper/internal/config"
	"tg-gatekeeper/internal/crash"
	"tg-gatekeeper/internal/models"
	"tg-gatekeeper/internal/service"
)

var (
	globalConfig *config.Config
	broadcasts   = models.NewBroadcastManager()
	broadcaster  *Broadcaster
)

// Initialize initializes the handler with configuration
func Initialize(cfg *config.Config) {
	globalConfig = cfg
	broadcaster = NewBroadcaster(cfg.Broadcast.SendsPerSecond)
	service.Initialize(cfg)
}

// SetupMessageHandlers configures all bot message and update handlers
func SetupMessageHandlers(bh *th.BotHandler, bot *telego.Bot) {
	service.InitRepositories()

	bh.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		defer crash.RecoverWithStack("message-handler")

		handled, err := routeCommand(ctx, bot, message)
		if handled {
			return err
		}

		return handleIncomingMessage(ctx, bot, message)
	})

	bh.HandleChannelPost(func(ctx *th.Context, message telego.Message) error {
		defer crash.RecoverWithStack("channel-post-handler")

		return reactToPost(ctx, bot, message)
	})

	bh.Handle(func(ctx *th.Context, update telego.Update) error {
		defer crash.RecoverWithStack("my-chat-member-handler")

		return handleMyChatMemberUpdate(ctx, bot, update)
	}, th.AnyMyChatMember())

	bh.HandleCallbackQuery(func(ctx *th.Context, query telego.CallbackQuery) error {
		defer crash.RecoverWithStack("callback-handler")

		return handleCallbackQuery(ctx, bot, query)
	})
}

// handleIncomingMessage processes non-command messages. An armed admin's next
// message is consumed as the broadcast payload and is never reacted to or
// tracked as a normal message.
func handleIncomingMessage(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	if message.From != nil && globalConfig.IsAdmin(message.From.ID) {
		if broadcasts.Disarm(message.From.ID) {
			return handleBroadcastPayload(ctx, bot, message)
		}
		return nil
	}

	return reactToPost(ctx, bot, message)
}
