package handler

import (
	"context"
	"math/rand"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-gatekeeper/internal/logger"
	"tg-gatekeeper/internal/service"
)

// reactFunc attaches one emoji reaction to one message. Split out so the
// selection loop is testable against a stub.
type reactFunc func(ctx context.Context, emoji string) error

// shouldReact filters out messages the reaction engine must ignore: commands,
// messages sent via an inline bot, and join/leave service messages.
func shouldReact(message telego.Message) bool {
	if strings.HasPrefix(message.Text, "/") {
		return false
	}
	if message.ViaBot != nil {
		return false
	}
	if len(message.NewChatMembers) > 0 || message.LeftChatMember != nil {
		return false
	}
	return true
}

// pickReactions draws up to max distinct emojis from the combined pool in
// random order.
func pickReactions(pool []string, max int) []string {
	if max > len(pool) {
		max = len(pool)
	}
	picked := make([]string, 0, max)
	for _, i := range rand.Perm(len(pool))[:max] {
		picked = append(picked, pool[i])
	}
	return picked
}

// tryReactions attempts the candidates in order and stops at the first one
// the platform accepts. Exhausting the candidates leaves the message
// unreacted with no retry.
func tryReactions(ctx context.Context, candidates []string, react reactFunc) bool {
	for _, emoji := range candidates {
		if err := react(ctx, emoji); err != nil {
			logger.Debugf("Reaction %s rejected: %v", emoji, err)
			continue
		}
		return true
	}
	return false
}

// reactToPost handles the auto-reaction engine for a group or channel post.
func reactToPost(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	if !shouldReact(message) {
		return nil
	}

	if message.From != nil {
		service.TrackUser(message.From)
	}
	if message.Chat.Type != telego.ChatTypePrivate {
		service.TouchChat(message.Chat.ID)
	}

	pool := append(append([]string{}, globalConfig.Reactions.Positive...), globalConfig.Reactions.Fallback...)
	candidates := pickReactions(pool, globalConfig.Reactions.MaxAttempts)

	tryReactions(ctx.Context(), candidates, func(reqCtx context.Context, emoji string) error {
		return bot.SetMessageReaction(reqCtx, &telego.SetMessageReactionParams{
			ChatID:    telego.ChatID{ID: message.Chat.ID},
			MessageID: message.MessageID,
			Reaction: []telego.ReactionType{
				&telego.ReactionTypeEmoji{Type: telego.ReactionEmoji, Emoji: emoji},
			},
			IsBig: false,
		})
	})
	return nil
}
