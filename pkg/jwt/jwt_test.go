package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = prev })
}

func TestPurposeTokenLifecycle(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	m := NewJWTManager("secret", time.Hour)

	withNow(t, base)
	token, err := m.IssueToken(42, PurposePasswordReset)
	require.NoError(t, err)

	tests := []struct {
		name    string
		at      time.Time
		token   string
		purpose string
		manager *JWTManager
		wantID  uint
		wantErr bool
	}{
		{name: "valid", at: base.Add(30 * time.Minute), token: token, purpose: PurposePasswordReset, manager: m, wantID: 42},
		{name: "at max age", at: base.Add(time.Hour), token: token, purpose: PurposePasswordReset, manager: m, wantID: 42},
		{name: "expired", at: base.Add(time.Hour + time.Second), token: token, purpose: PurposePasswordReset, manager: m, wantErr: true},
		{name: "wrong purpose", at: base, token: token, purpose: "email-confirm", manager: m, wantErr: true},
		{name: "wrong secret", at: base, token: token, purpose: PurposePasswordReset, manager: NewJWTManager("other", time.Hour), wantErr: true},
		{name: "garbage", at: base, token: "not-a-token", purpose: PurposePasswordReset, manager: m, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withNow(t, tt.at)
			id, err := tt.manager.VerifyPurposeToken(tt.token, time.Hour, tt.purpose)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				assert.Zero(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestPurposeTokenTamperedPayload(t *testing.T) {
	withNow(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	m := NewJWTManager("secret", time.Hour)

	a, err := m.IssueToken(1, PurposePasswordReset)
	require.NoError(t, err)
	b, err := m.IssueToken(2, PurposePasswordReset)
	require.NoError(t, err)

	pa := strings.Split(a, ".")
	pb := strings.Split(b, ".")
	forged := pa[0] + "." + pb[1] + "." + pa[2]

	_, err = m.VerifyPurposeToken(forged, time.Hour, PurposePasswordReset)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessToken(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	withNow(t, now)
	m := NewJWTManager("secret", 2*time.Hour)

	token, err := m.GenerateToken(7, "admin")
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "admin", claims.Username)

	withNow(t, now.Add(3*time.Hour))
	_, err = m.VerifyToken(token)
	assert.Error(t, err)
}

func TestResetTokenIsNotAccessToken(t *testing.T) {
	withNow(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	m := NewJWTManager("secret", 2*time.Hour)

	token, err := m.IssueToken(7, PurposePasswordReset)
	require.NoError(t, err)

	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
