package handler

import (
	"context"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"

	"tg-gatekeeper/internal/config"
)

// initTestConfig wires the handler package with a minimal config: one admin
// (ID 99) and a gate channel. Repositories are left uninitialized on purpose,
// so any store access in a path under test panics the test.
func initTestConfig(t *testing.T) {
	t.Helper()
	Initialize(&config.Config{
		Bot: config.BotConfig{
			MainChannel: "test_channel",
			AdminIDs:    []int64{99},
		},
	})
}

type panelStub struct {
	messages  []*telego.SendMessageParams
	documents []*telego.SendDocumentParams
}

func (s *panelStub) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	s.messages = append(s.messages, params)
	return &telego.Message{}, nil
}

func (s *panelStub) SendDocument(ctx context.Context, params *telego.SendDocumentParams) (*telego.Message, error) {
	s.documents = append(s.documents, params)
	return &telego.Message{}, nil
}

func nonAdminMessage(text string) telego.Message {
	return telego.Message{
		Text: text,
		From: &telego.User{ID: 42, FirstName: "Eve"},
		Chat: telego.Chat{ID: 42, Type: telego.ChatTypePrivate},
	}
}

func TestAdminCommandsDenyNonAdmins(t *testing.T) {
	initTestConfig(t)

	cases := []struct {
		name    string
		handler func(ctx context.Context, api panelAPI, message telego.Message) error
		command string
	}{
		{"admin panel", handleAdminCommand, "/admin"},
		{"cancel broadcast", handleCancelBroadcastCommand, "/cancel_broadcast"},
		{"export", handleExportCommand, "/export_data"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &panelStub{}

			err := tc.handler(context.Background(), api, nonAdminMessage(tc.command))
			require.NoError(t, err)

			require.Len(t, api.messages, 1, "exactly one denial message")
			require.Equal(t, accessDeniedText, api.messages[0].Text)
			require.EqualValues(t, 42, api.messages[0].ChatID.ID)
			require.Empty(t, api.documents)
		})
	}
}

func TestCancelBroadcastDenialLeavesOtherAdminsArmed(t *testing.T) {
	initTestConfig(t)

	broadcasts.Arm(99)
	defer broadcasts.Disarm(99)

	api := &panelStub{}
	err := handleCancelBroadcastCommand(context.Background(), api, nonAdminMessage("/cancel_broadcast"))
	require.NoError(t, err)

	require.True(t, broadcasts.IsArmed(99), "a denied /cancel_broadcast must not disarm anyone")
	require.Len(t, api.messages, 1)
	require.Equal(t, accessDeniedText, api.messages[0].Text)
}
