package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAdminIDs(t *testing.T) {
	ids, err := parseAdminIDs("7191595289, 7258860451,")
	require.NoError(t, err)
	require.Equal(t, []int64{7191595289, 7258860451}, ids)

	ids, err = parseAdminIDs("")
	require.NoError(t, err)
	require.Empty(t, ids)

	_, err = parseAdminIDs("12,abc")
	require.Error(t, err)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:test-token")
	t.Setenv("MAIN_CHANNEL_USERNAME", "test_channel")
	t.Setenv("ADMIN_IDS", "42,77")
	t.Setenv("DATABASE_DSN", "user:pass@tcp(localhost:3306)/db")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "123:test-token", cfg.Bot.Token)
	require.Equal(t, "test_channel", cfg.Bot.MainChannel)
	require.Equal(t, []int64{42, 77}, cfg.Bot.AdminIDs)
	require.Equal(t, "user:pass@tcp(localhost:3306)/db", cfg.Database.DSN)

	// defaults survive env-only loading
	require.Equal(t, "8080", cfg.Health.ListenPort)
	require.Equal(t, 3, cfg.Reactions.MaxAttempts)
	require.Equal(t, 20, cfg.Broadcast.SendsPerSecond)
	require.Len(t, cfg.Reactions.Positive, 15)
	require.Len(t, cfg.Reactions.Fallback, 5)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	_, err := Load("")
	require.Error(t, err)
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{Bot: BotConfig{AdminIDs: []int64{42}}}
	require.True(t, cfg.IsAdmin(42))
	require.False(t, cfg.IsAdmin(43))
}
