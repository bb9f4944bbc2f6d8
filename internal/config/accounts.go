package config

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/example/court-booker/internal/booking"
	"github.com/example/court-booker/internal/crypto"
)

// sealedPrefix marks a password stored sealed in the accounts file.
// `courtbook seal` produces values in this form.
const sealedPrefix = "sealed:"

type accountsFile struct {
	Accounts map[string]accountEntry `mapstructure:"accounts"`
}

type accountEntry struct {
	LoginURL string `mapstructure:"login_url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Facility string `mapstructure:"facility"`
	Time     string `mapstructure:"time"`
	Court    string `mapstructure:"court"`
	Phone    string `mapstructure:"phone"`
	Reason   string `mapstructure:"reason"`
}

// LoadAccounts reads the accounts file into validated, immutable profiles,
// ordered by label. A malformed entry fails the whole load with the offending
// account named; nothing is silently skipped. sealer may be nil when no
// sealed passwords are expected.
func LoadAccounts(path string, sealer *crypto.AEAD) ([]booking.AccountProfile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read accounts file %s", path)
	}

	var file accountsFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, errors.Wrapf(err, "parse accounts file %s", path)
	}
	if len(file.Accounts) == 0 {
		return nil, errors.Newf("accounts file %s defines no accounts", path)
	}

	labels := make([]string, 0, len(file.Accounts))
	for label := range file.Accounts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	profiles := make([]booking.AccountProfile, 0, len(labels))
	for _, label := range labels {
		e := file.Accounts[label]

		password := e.Password
		if strings.HasPrefix(password, sealedPrefix) {
			if sealer == nil {
				return nil, errors.Newf(
					"account %q has a sealed password but no credential key is configured", label)
			}
			var err error
			password, err = sealer.OpenString(strings.TrimPrefix(password, sealedPrefix))
			if err != nil {
				return nil, errors.Wrapf(err, "account %q: unseal password", label)
			}
		}

		p := booking.AccountProfile{
			Label:         label,
			LoginURL:      e.LoginURL,
			Username:      e.Username,
			Password:      booking.Secret(password),
			Facility:      e.Facility,
			TimeOfDay:     e.Time,
			CourtNumber:   e.Court,
			Phone:         e.Phone,
			BookingReason: e.Reason,
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
