package handler

import (
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-gatekeeper/internal/logger"
	"tg-gatekeeper/internal/models"
	"tg-gatekeeper/internal/service"
)

// wasBotAdded reports whether the status pair is the qualifying transition:
// the bot became a member or admin of a chat it was not in before. Demotions,
// removals and admin/member flips inside the chat all return false.
func wasBotAdded(oldStatus, newStatus string) bool {
	return isInChat(newStatus) && !isInChat(oldStatus)
}

func isInChat(status string) bool {
	return status == telego.MemberStatusMember || status == telego.MemberStatusAdministrator
}

// handleMyChatMemberUpdate tracks chats the bot gets added to and thanks the
// adder in private. When the private send fails (the adder never started the
// bot), the message is deferred instead of dropped.
func handleMyChatMemberUpdate(ctx *th.Context, bot *telego.Bot, update telego.Update) error {
	my := update.MyChatMember
	if my == nil {
		return nil
	}

	// Private-chat updates arrive here too when a user blocks or unblocks
	// the bot; those are not chat additions.
	if my.Chat.Type == telego.ChatTypePrivate {
		return nil
	}

	oldStatus := my.OldChatMember.MemberStatus()
	newStatus := my.NewChatMember.MemberStatus()
	if !wasBotAdded(oldStatus, newStatus) {
		return nil
	}

	chat := my.Chat
	adder := my.From

	title := chat.Title
	if title == "" {
		if chat.Type == telego.ChatTypeChannel {
			title = fmt.Sprintf("Channel ID: %d", chat.ID)
		} else {
			title = "Private Group"
		}
	}

	kind := models.ChatKindChannel
	if chat.Type == telego.ChatTypeGroup || chat.Type == telego.ChatTypeSupergroup {
		kind = models.ChatKindGroup
	}

	logger.Infof("Bot added to %s %d (%s) by user %d", kind, chat.ID, title, adder.ID)
	service.TrackChat(chat.ID, title, kind, adder.ID)

	var notice string
	switch {
	case kind == models.ChatKindGroup:
		notice = fmt.Sprintf("✅ Thanks for adding me to the group '%s'! I will react to new messages automatically.", title)
	case kind == models.ChatKindChannel && newStatus == telego.MemberStatusAdministrator:
		notice = fmt.Sprintf("📢 Thanks for adding me to the channel '%s'! Please ensure I have 'Add Reactions' permission.", title)
	}
	if notice == "" {
		return nil
	}

	_, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: adder.ID},
		Text:   notice,
	})
	if err != nil {
		logger.Infof("Could not notify user %d directly, deferring: %v", adder.ID, err)
		service.QueuePendingNotification(adder.ID, notice)
	}
	return nil
}
