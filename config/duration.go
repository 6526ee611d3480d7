package config

import (
	"fmt"
	"time"
)

// Duration is an expiry offset written in site.cfg as text, such as "1h30m".
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText writes the duration in time.Duration notation.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses an offset. Negative offsets are rejected.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("duration %q: %w", text, err)
	}
	if v < 0 {
		return fmt.Errorf("duration %q: must not be negative", text)
	}
	*d = Duration(v)
	return nil
}
