package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"

	"tg-gatekeeper/internal/config"
)

type stubMemberAPI struct {
	member telego.ChatMember
	err    error
	calls  int
}

func (s *stubMemberAPI) GetChatMember(ctx context.Context, params *telego.GetChatMemberParams) (telego.ChatMember, error) {
	s.calls++
	return s.member, s.err
}

func TestIsChannelMember(t *testing.T) {
	Initialize(&config.Config{Bot: config.BotConfig{MainChannel: "test_channel"}})

	tests := []struct {
		name   string
		member telego.ChatMember
		want   bool
	}{
		{"member", &telego.ChatMemberMember{Status: telego.MemberStatusMember}, true},
		{"administrator", &telego.ChatMemberAdministrator{Status: telego.MemberStatusAdministrator}, true},
		{"owner", &telego.ChatMemberOwner{Status: telego.MemberStatusCreator}, true},
		{"left", &telego.ChatMemberLeft{Status: telego.MemberStatusLeft}, false},
		{"banned", &telego.ChatMemberBanned{Status: telego.MemberStatusBanned}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &stubMemberAPI{member: tt.member}
			require.Equal(t, tt.want, IsChannelMember(context.Background(), api, 42))
		})
	}
}

func TestIsChannelMemberFailsClosed(t *testing.T) {
	Initialize(&config.Config{Bot: config.BotConfig{MainChannel: "test_channel"}})

	api := &stubMemberAPI{err: errors.New("telegram: 400 bad request")}
	require.False(t, IsChannelMember(context.Background(), api, 42))
	require.Equal(t, 1, api.calls)
}
