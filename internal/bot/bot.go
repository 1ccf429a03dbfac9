package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-gatekeeper/internal/config"
)

// BotService represents the Telegram bot service
type BotService struct {
	Bot     *telego.Bot
	Handler *th.BotHandler
}

// Start starts the bot handler
func (b *BotService) Start() {
	b.Handler.Start()
}

// Stop stops the bot handler
func (b *BotService) Stop() {
	b.Handler.Stop()
}

// Initialize initializes the bot, the long-polling update feed and the
// liveness HTTP server
func Initialize(ctx context.Context, cfg *config.Config) (*BotService, *HealthServer, error) {
	if cfg.Bot.Token == "" {
		return nil, nil, fmt.Errorf("bot token is required")
	}

	bot, err := telego.NewBot(cfg.Bot.Token, telego.WithDefaultDebugLogger())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	botUser, err := bot.GetMe(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get bot info: %w", err)
	}
	log.Printf("Authorized on account %s", botUser.Username)

	setScopedCommands(ctx, bot, cfg)

	// Leftover webhooks block getUpdates polling.
	if err := bot.DeleteWebhook(ctx, &telego.DeleteWebhookParams{}); err != nil {
		return nil, nil, fmt.Errorf("failed to delete existing webhook: %w", err)
	}

	updates, err := bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		AllowedUpdates: []string{"message", "channel_post", "my_chat_member", "callback_query"},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start long polling: %w", err)
	}

	bh, err := th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create bot handler: %w", err)
	}

	return &BotService{
		Bot:     bot,
		Handler: bh,
	}, NewHealthServer(cfg.Health.ListenPort), nil
}

// setScopedCommands publishes the command menus: the default menu for every
// private chat and the extended menu for each configured admin's chat.
func setScopedCommands(ctx context.Context, bot *telego.Bot, cfg *config.Config) {
	defaultCommands := []telego.BotCommand{
		{Command: "start", Description: "👋 Start the bot & check subscription"},
	}
	adminCommands := append(defaultCommands,
		telego.BotCommand{Command: "admin", Description: "👑 Access admin panel (Admin only)"},
		telego.BotCommand{Command: "cancel_broadcast", Description: "🛑 Cancel ongoing broadcast"},
		telego.BotCommand{Command: "export_data", Description: "📁 Export stored JSON"},
	)

	err := bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{
		Commands: defaultCommands,
		Scope:    &telego.BotCommandScopeAllPrivateChats{Type: telego.ScopeTypeAllPrivateChats},
	})
	if err != nil {
		log.Printf("Warning: Failed to set default bot commands: %v", err)
	}

	for _, adminID := range cfg.Bot.AdminIDs {
		err := bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{
			Commands: adminCommands,
			Scope: &telego.BotCommandScopeChat{
				Type:   telego.ScopeTypeChat,
				ChatID: telego.ChatID{ID: adminID},
			},
		})
		if err != nil {
			log.Printf("Warning: Failed to set admin commands for %d: %v", adminID, err)
		}
	}

	log.Printf("Bot commands configured")
}
