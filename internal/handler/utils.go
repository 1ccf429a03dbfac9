package handler

import (
	"context"

	"github.com/mymmrac/telego"
)

// identityAPI is the slice of the bot API needed to resolve the bot's own
// username. *telego.Bot satisfies it.
type identityAPI interface {
	GetMe(ctx context.Context) (*telego.User, error)
}

// getBotUsername retrieves the bot's username
func getBotUsername(ctx context.Context, api identityAPI) (string, error) {
	botUser, err := api.GetMe(ctx)
	if err != nil {
		return "", err
	}
	return botUser.Username, nil
}
