package booking

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileValidate(t *testing.T) {
	ok := testAccount("user1")
	require.NoError(t, ok.Validate())

	// Court number is the one optional field.
	withCourt := ok
	withCourt.CourtNumber = "2"
	assert.NoError(t, withCourt.Validate())

	cases := []struct {
		name   string
		mutate func(*AccountProfile)
	}{
		{"label", func(a *AccountProfile) { a.Label = "" }},
		{"login url", func(a *AccountProfile) { a.LoginURL = "" }},
		{"username", func(a *AccountProfile) { a.Username = "" }},
		{"password", func(a *AccountProfile) { a.Password = "" }},
		{"facility", func(a *AccountProfile) { a.Facility = "" }},
		{"time", func(a *AccountProfile) { a.TimeOfDay = "" }},
		{"bad time", func(a *AccountProfile) { a.TimeOfDay = "half past" }},
		{"phone", func(a *AccountProfile) { a.Phone = "" }},
		{"reason", func(a *AccountProfile) { a.BookingReason = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := testAccount("user1")
			tc.mutate(&a)
			assert.Error(t, a.Validate())
		})
	}
}

func TestValidateErrorNamesAccount(t *testing.T) {
	a := testAccount("gary")
	a.Phone = ""
	err := a.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gary")
}

func TestSecretNeverPrints(t *testing.T) {
	s := Secret("hunter2")
	assert.Equal(t, "[redacted]", s.String())
	assert.NotContains(t, fmt.Sprintf("%v", s), "hunter2")
	assert.NotContains(t, fmt.Sprintf("%s", s), "hunter2")
	assert.NotContains(t, fmt.Sprintf("%#v", s), "hunter2")
	assert.NotContains(t, fmt.Sprintf("%+v", testAccount("u")), "goodpass")
	assert.Equal(t, "hunter2", s.Reveal())
}

func TestTargetDate(t *testing.T) {
	loc, err := time.LoadLocation("America/St_Johns")
	require.NoError(t, err)

	now := time.Date(2026, time.August, 30, 21, 45, 0, 0, loc)
	got := TargetDate(now, loc, 6)
	assert.Equal(t, time.Date(2026, time.September, 5, 0, 0, 0, 0, loc), got)

	// Late-evening UTC must not bleed into the next local day.
	utcNow := time.Date(2026, time.August, 31, 1, 30, 0, 0, time.UTC) // Aug 30 local
	got = TargetDate(utcNow, loc, 6)
	assert.Equal(t, time.September, got.Month())
	assert.Equal(t, 5, got.Day())
}

func TestTargetDateMonthRollover(t *testing.T) {
	got := TargetDate(time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC), time.UTC, 6)
	assert.Equal(t, time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC), got)
}
