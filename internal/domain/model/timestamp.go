package model

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp wraps time.Time to enforce RFC 3339 serialization with an
// explicit offset on the wire, rejecting bare ISO-8601 strings that omit
// one. Wall-clock values are normalized to UTC once parsed.
type Timestamp time.Time

// MinTimestamp and MaxTimestamp bound the representable range used as the
// default for an absent dateStart/dateEnd on the statistic endpoint.
var (
	MinTimestamp = Timestamp(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC))
	MaxTimestamp = Timestamp(time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC))
)

func (t Timestamp) Time() time.Time { return time.Time(t) }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).UTC().Format(time.RFC3339) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*t = Timestamp(time.Time{})
		return nil
	}
	parsed, err := ParseRFC3339(s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

// ParseRFC3339 parses s as RFC 3339 with an explicit offset, rejecting bare
// ISO-8601 datetimes that lack one (time.RFC3339 requires "Z" or "±HH:MM").
func ParseRFC3339(s string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid RFC3339 date (offset required): %w", err)
	}
	return parsed.UTC(), nil
}
