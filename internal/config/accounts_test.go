package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/court-booker/internal/crypto"
)

func writeAccounts(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const twoAccounts = `
[accounts.zoe]
login_url = "https://portal.example/login"
username = "zoe@example.com"
password = "zoepass"
facility = "badminton"
time = "7:00pm"
court = "2"
phone = "7095551111"
reason = "weekly badminton"

[accounts.abe]
login_url = "https://portal.example/login"
username = "abe@example.com"
password = "abepass"
facility = "badminton"
time = "8:00pm"
phone = "7095552222"
reason = "weekly badminton"
`

func TestLoadAccounts(t *testing.T) {
	path := writeAccounts(t, twoAccounts)
	profiles, err := LoadAccounts(path, nil)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	// Sorted by label, not file order.
	assert.Equal(t, "abe", profiles[0].Label)
	assert.Equal(t, "zoe", profiles[1].Label)

	assert.Equal(t, "abe@example.com", profiles[0].Username)
	assert.Equal(t, "abepass", profiles[0].Password.Reveal())
	assert.Empty(t, profiles[0].CourtNumber)
	assert.Equal(t, "2", profiles[1].CourtNumber)
	assert.Equal(t, "7:00pm", profiles[1].TimeOfDay)
}

func TestLoadAccountsSealedPassword(t *testing.T) {
	key := make([]byte, crypto.KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	sealer, err := crypto.New(key)
	require.NoError(t, err)
	sealed, err := sealer.SealToString("zoepass")
	require.NoError(t, err)

	body := `
[accounts.zoe]
login_url = "https://portal.example/login"
username = "zoe@example.com"
password = "sealed:` + sealed + `"
facility = "badminton"
time = "7:00pm"
phone = "7095551111"
reason = "weekly badminton"
`
	path := writeAccounts(t, body)

	profiles, err := LoadAccounts(path, sealer)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "zoepass", profiles[0].Password.Reveal())

	// Sealed password without a configured key is an error, not a skip.
	_, err = LoadAccounts(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zoe")

	// Wrong key fails the load.
	other := make([]byte, crypto.KeySize)
	wrong, err := crypto.New(other)
	require.NoError(t, err)
	_, err = LoadAccounts(path, wrong)
	assert.Error(t, err)
}

func TestLoadAccountsInvalidEntryNamesAccount(t *testing.T) {
	body := `
[accounts.broken]
login_url = "https://portal.example/login"
username = "broken@example.com"
password = "pass"
facility = "badminton"
time = "7:00pm"
reason = "weekly badminton"
`
	path := writeAccounts(t, body) // phone missing
	_, err := LoadAccounts(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestLoadAccountsEmptyFile(t *testing.T) {
	_, err := LoadAccounts(writeAccounts(t, ""), nil)
	assert.Error(t, err)
}

func TestLoadAccountsMissingFile(t *testing.T) {
	_, err := LoadAccounts(filepath.Join(t.TempDir(), "nope.toml"), nil)
	assert.Error(t, err)
}
