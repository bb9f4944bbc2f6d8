package booking

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// TimeOfDay is a clock time within the booking day.
type TimeOfDay struct {
	Hour   int // 0-23
	Minute int
}

// ParseTimeOfDay accepts the formats users put in config files: "7:00pm",
// "7 pm", "7:00 p.m.", "19:00", "7". Bare hours below 12 with no am/pm
// marker are taken as written (7 means 07:00).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	clean := strings.ToLower(strings.TrimSpace(s))
	if clean == "" {
		return TimeOfDay{}, errors.New("empty time")
	}

	pm := strings.Contains(clean, "p")
	am := strings.Contains(clean, "a")

	var numeric strings.Builder
	for _, c := range clean {
		if c >= '0' && c <= '9' || c == ':' {
			numeric.WriteRune(c)
		}
	}
	num := numeric.String()
	if num == "" {
		return TimeOfDay{}, errors.Newf("no digits in time %q", s)
	}

	var hour, minute int
	var err error
	if h, m, found := strings.Cut(num, ":"); found {
		hour, err = strconv.Atoi(h)
		if err == nil && m != "" {
			minute, err = strconv.Atoi(m)
		}
	} else {
		hour, err = strconv.Atoi(num)
	}
	if err != nil {
		return TimeOfDay{}, errors.Wrapf(err, "bad time %q", s)
	}

	if pm && hour < 12 {
		hour += 12
	} else if am && hour == 12 {
		hour = 0
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, errors.Newf("time %q out of range", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// SlotLabel renders the hour-long slot the way the portal's cart buttons
// label it, e.g. "7:00 pm - 8:00 pm".
func (t TimeOfDay) SlotLabel() string {
	end := TimeOfDay{Hour: (t.Hour + 1) % 24, Minute: t.Minute}
	return t.String() + " - " + end.String()
}

// String renders the 12-hour clock form, e.g. "7:00 pm".
func (t TimeOfDay) String() string {
	h := t.Hour % 12
	if h == 0 {
		h = 12
	}
	half := "am"
	if t.Hour >= 12 {
		half = "pm"
	}
	return fmt.Sprintf("%d:%02d %s", h, t.Minute, half)
}
