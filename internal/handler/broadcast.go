package handler

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	"golang.org/x/time/rate"

	"tg-gatekeeper/internal/logger"
	"tg-gatekeeper/internal/service"
)

// Report tallies one broadcast run.
type Report struct {
	Sent   int
	Failed int
}

// Broadcaster copies one payload message to many recipients, pacing sends
// with a token bucket so the run stays under the platform's outbound limits.
type Broadcaster struct {
	limiter *rate.Limiter
}

// NewBroadcaster creates a Broadcaster sending at most sendsPerSecond
// messages per second. A non-positive value disables pacing.
func NewBroadcaster(sendsPerSecond int) *Broadcaster {
	b := &Broadcaster{}
	if sendsPerSecond > 0 {
		b.limiter = rate.NewLimiter(rate.Limit(sendsPerSecond), 1)
	}
	return b
}

// Run delivers the payload to every recipient via send, tallying successes
// and failures. Failed sends are not retried; there is no progress record, so
// an interrupted run cannot be resumed.
func (b *Broadcaster) Run(ctx context.Context, recipients []int64, send func(ctx context.Context, userID int64) error) Report {
	var report Report
	for _, userID := range recipients {
		if b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				logger.Warningf("Broadcast aborted while rate limiting: %v", err)
				report.Failed += len(recipients) - report.Sent - report.Failed
				return report
			}
		}
		if err := send(ctx, userID); err != nil {
			logger.Debugf("Broadcast to user %d failed: %v", userID, err)
			report.Failed++
		} else {
			report.Sent++
		}
	}
	return report
}

// handleBroadcastPayload consumes the armed admin's message as the broadcast
// payload: it is copied to every known user and a sent/failed report goes
// back to the admin.
func handleBroadcastPayload(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	userIDs, err := service.AllUserIDs()
	if err != nil {
		logger.Errorf("DB error enumerating broadcast recipients: %v", err)
		return sendDatabaseError(ctx.Context(), bot, message.Chat.ID)
	}
	if len(userIDs) == 0 {
		_, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
			ChatID: telego.ChatID{ID: message.Chat.ID},
			Text:   "⚠️ No users found.",
		})
		return err
	}

	_, err = bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: message.Chat.ID},
		Text:   fmt.Sprintf("🚀 Starting broadcast to %d users...", len(userIDs)),
	})
	if err != nil {
		logger.Warningf("Failed to announce broadcast: %v", err)
	}

	logger.Infof("Broadcasting message %d from admin %d to %d users", message.MessageID, message.From.ID, len(userIDs))

	report := broadcaster.Run(ctx.Context(), userIDs, func(sendCtx context.Context, userID int64) error {
		_, copyErr := bot.CopyMessage(sendCtx, &telego.CopyMessageParams{
			ChatID:     telego.ChatID{ID: userID},
			FromChatID: telego.ChatID{ID: message.Chat.ID},
			MessageID:  message.MessageID,
		})
		return copyErr
	})

	logger.Infof("Broadcast finished: sent=%d failed=%d", report.Sent, report.Failed)

	_, err = bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: message.Chat.ID},
		Text:   fmt.Sprintf("✅ Broadcast finished.\nSent: %d\nFailed: %d", report.Sent, report.Failed),
	})
	return err
}
