package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// referenceEpoch is 2001-01-01T00:00:00Z. Older device files store dates as
// seconds relative to it.
var referenceEpoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// maxLegacySeconds bounds offsets to what a time.Duration can hold.
const maxLegacySeconds = float64(math.MaxInt64 / int64(time.Second))

// decodeTime accepts an RFC 3339 string or a number of seconds since
// referenceEpoch. An absent or null value yields the zero time.
func decodeTime(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		return t.UTC(), nil
	}

	var secs float64
	if err := json.Unmarshal(raw, &secs); err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %s: %w", raw, err)
	}
	if math.Abs(secs) >= maxLegacySeconds {
		return time.Time{}, fmt.Errorf("timestamp %s out of range", raw)
	}
	whole, frac := math.Modf(secs)
	return referenceEpoch.Add(time.Duration(whole)*time.Second + time.Duration(frac*float64(time.Second))), nil
}
