package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finledger/internal/config"
	"finledger/internal/identity"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return &App{
		config:      cfg,
		sessionPath: filepath.Join(t.TempDir(), "session.json"),
	}
}

func TestCurrentSession_VerifiesAccessToken(t *testing.T) {
	a := newTestApp(t)

	tok, err := identity.GenerateUserToken("u-42", []byte(a.config.SecretKey), time.Hour)
	require.NoError(t, err)

	// The stored user id is stale on purpose. The token claims win.
	require.NoError(t, SaveSession(a.sessionPath, &Session{
		UserID:      "someone-else",
		Username:    "alice",
		AccessToken: tok,
	}))

	s, err := a.currentSession()
	require.NoError(t, err)
	assert.Equal(t, "u-42", s.UserID)
	assert.Equal(t, "alice", s.Username)
}

func TestCurrentSession_NotLoggedIn(t *testing.T) {
	a := newTestApp(t)

	_, err := a.currentSession()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestCurrentSession_ExpiredToken(t *testing.T) {
	a := newTestApp(t)

	tok, err := identity.GenerateUserToken("u-42", []byte(a.config.SecretKey), -time.Minute)
	require.NoError(t, err)
	require.NoError(t, SaveSession(a.sessionPath, &Session{UserID: "u-42", AccessToken: tok}))

	_, err = a.currentSession()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session expired")
}

func TestCurrentSession_TamperedToken(t *testing.T) {
	a := newTestApp(t)

	tok, err := identity.GenerateUserToken("u-42", []byte("some-other-secret"), time.Hour)
	require.NoError(t, err)
	require.NoError(t, SaveSession(a.sessionPath, &Session{UserID: "u-42", AccessToken: tok}))

	_, err = a.currentSession()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid session")
}
