package handler

import (
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"
)

func TestWasBotAdded(t *testing.T) {
	tests := []struct {
		name      string
		oldStatus string
		newStatus string
		want      bool
	}{
		{"left to member", telego.MemberStatusLeft, telego.MemberStatusMember, true},
		{"left to administrator", telego.MemberStatusLeft, telego.MemberStatusAdministrator, true},
		{"banned to member", telego.MemberStatusBanned, telego.MemberStatusMember, true},
		{"member to administrator", telego.MemberStatusMember, telego.MemberStatusAdministrator, false},
		{"administrator to member", telego.MemberStatusAdministrator, telego.MemberStatusMember, false},
		{"member to left", telego.MemberStatusMember, telego.MemberStatusLeft, false},
		{"administrator to left", telego.MemberStatusAdministrator, telego.MemberStatusLeft, false},
		{"left to left", telego.MemberStatusLeft, telego.MemberStatusLeft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, wasBotAdded(tt.oldStatus, tt.newStatus))
		})
	}
}
