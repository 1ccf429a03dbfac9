package handler

import (
	"context"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"
)

type recheckStub struct {
	member bool

	answers []*telego.AnswerCallbackQueryParams
	edits   []*telego.EditMessageTextParams
}

func (s *recheckStub) GetChatMember(ctx context.Context, params *telego.GetChatMemberParams) (telego.ChatMember, error) {
	if s.member {
		return &telego.ChatMemberMember{Status: telego.MemberStatusMember}, nil
	}
	return &telego.ChatMemberLeft{Status: telego.MemberStatusLeft}, nil
}

func (s *recheckStub) GetMe(ctx context.Context) (*telego.User, error) {
	return &telego.User{Username: "gatekeeper_bot"}, nil
}

func (s *recheckStub) AnswerCallbackQuery(ctx context.Context, params *telego.AnswerCallbackQueryParams) error {
	s.answers = append(s.answers, params)
	return nil
}

func (s *recheckStub) EditMessageText(ctx context.Context, params *telego.EditMessageTextParams) (*telego.Message, error) {
	s.edits = append(s.edits, params)
	return &telego.Message{}, nil
}

func checkJoinQuery(id string) telego.CallbackQuery {
	return telego.CallbackQuery{
		ID:      id,
		From:    telego.User{ID: 42, FirstName: "Eve"},
		Data:    checkJoinCallbackData,
		Message: &telego.Message{MessageID: 5, Chat: telego.Chat{ID: 42, Type: telego.ChatTypePrivate}},
	}
}

func TestCheckJoinStillNotMemberLeavesMessageUntouched(t *testing.T) {
	initTestConfig(t)
	api := &recheckStub{member: false}

	// Clicking the button repeatedly without joining must only raise alerts;
	// the gated message keeps its text and keyboard.
	require.NoError(t, handleCheckJoinCallback(context.Background(), api, checkJoinQuery("q1")))
	require.NoError(t, handleCheckJoinCallback(context.Background(), api, checkJoinQuery("q2")))

	require.Empty(t, api.edits)
	require.Len(t, api.answers, 2)
	for _, a := range api.answers {
		require.True(t, a.ShowAlert)
		require.Equal(t, recheckFailedText, a.Text)
	}
}

func TestCheckJoinRepeatedWhileMemberEditsInPlace(t *testing.T) {
	initTestConfig(t)
	api := &recheckStub{member: true}

	require.NoError(t, handleCheckJoinCallback(context.Background(), api, checkJoinQuery("q1")))
	require.NoError(t, handleCheckJoinCallback(context.Background(), api, checkJoinQuery("q2")))

	require.Len(t, api.edits, 2)
	require.Equal(t, api.edits[0], api.edits[1], "a repeat click produces the same in-place edit, never a new message")
	require.EqualValues(t, 42, api.edits[0].ChatID.ID)
	require.Equal(t, 5, api.edits[0].MessageID)
	require.Equal(t, recheckGrantedText, api.edits[0].Text)

	require.Len(t, api.answers, 2)
	for _, a := range api.answers {
		require.False(t, a.ShowAlert)
		require.Empty(t, a.Text)
	}
}
