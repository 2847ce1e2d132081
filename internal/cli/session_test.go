package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := &Session{UserID: "u1", Username: "alice", AccessToken: "tok"}
	require.NoError(t, SaveSession(path, s))

	loaded, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "session file must be private")
}

func TestLoadSession_MissingFile(t *testing.T) {
	loaded, err := LoadSession(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Nil(t, loaded, "missing session means not logged in")
}

func TestLoadSession_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadSession(path)
	assert.Error(t, err)
}

func TestClearSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, SaveSession(path, &Session{UserID: "u1"}))

	require.NoError(t, ClearSession(path))
	loaded, err := LoadSession(path)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	assert.NoError(t, ClearSession(path), "clearing twice is fine")
}
