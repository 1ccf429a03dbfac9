package service

import (
	"context"

	"github.com/mymmrac/telego"

	"tg-gatekeeper/internal/logger"
)

// ChatMemberAPI is the slice of the bot API the membership check needs.
// *telego.Bot satisfies it.
type ChatMemberAPI interface {
	GetChatMember(ctx context.Context, params *telego.GetChatMemberParams) (telego.ChatMember, error)
}

// IsChannelMember reports whether the user is a member, administrator or
// owner of the configured main channel. Any API failure (bot lacks
// visibility, rate limit, network) reports false: access stays gated when the
// answer is unknown.
func IsChannelMember(ctx context.Context, api ChatMemberAPI, userID int64) bool {
	member, err := api.GetChatMember(ctx, &telego.GetChatMemberParams{
		ChatID: telego.ChatID{Username: "@" + globalConfig.Bot.MainChannel},
		UserID: userID,
	})
	if err != nil {
		logger.Warningf("Membership check failed for user %d: %v", userID, err)
		return false
	}

	switch member.MemberStatus() {
	case telego.MemberStatusCreator, telego.MemberStatusAdministrator, telego.MemberStatusMember:
		return true
	}
	return false
}
