// Package daykey maps instants to day-granularity partition keys.
//
// A Key is the ISO calendar date (YYYY-MM-DD) of an instant in a fixed
// reference location. The location is always explicit: UTC unless the
// caller configures another one. The process locale is never consulted.
package daykey

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the time layout of a Key.
const Layout = "2006-01-02"

// ErrInvalidKey is returned when a string is not a valid day key.
var ErrInvalidKey = errors.New("daykey: key is invalid")

// Key identifies one calendar day. It keys both cache tiers.
type Key string

// String returns the key as a string.
func (k Key) String() string {
	return string(k)
}

// Parse validates s and returns it as a Key.
func Parse(s string) (Key, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	// Reject non-canonical forms such as "2024-1-02".
	if t.Format(Layout) != s {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return Key(s), nil
}

// Keyer derives keys from instants.
//
// Contract:
// - Determinism: the same instant and location always produce the same key.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key returns the partition key for now.
	Key(now time.Time) Key
}

// LocationKeyer derives keys in a fixed reference location.
type LocationKeyer struct {
	loc *time.Location
}

// New returns a keyer for loc. A nil loc means UTC.
func New(loc *time.Location) *LocationKeyer {
	if loc == nil {
		loc = time.UTC
	}
	return &LocationKeyer{loc: loc}
}

// UTC returns a keyer whose days roll over at 00:00 UTC.
func UTC() *LocationKeyer {
	return New(time.UTC)
}

// Load returns a keyer for the named IANA location ("UTC", "Europe/Paris").
func Load(name string) (*LocationKeyer, error) {
	if name == "" {
		return UTC(), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("daykey: load location %q: %w", name, err)
	}
	return New(loc), nil
}

// Location returns the reference location.
func (k *LocationKeyer) Location() *time.Location {
	return k.loc
}

// Key returns the calendar date of now in the reference location.
func (k *LocationKeyer) Key(now time.Time) Key {
	return Key(now.In(k.loc).Format(Layout))
}

// Start returns midnight of key in the reference location.
func (k *LocationKeyer) Start(key Key) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, string(key), k.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return t, nil
}

// NextRollover returns the first instant after now whose key differs from
// the key of now.
func (k *LocationKeyer) NextRollover(now time.Time) time.Time {
	local := now.In(k.loc)
	y, m, d := local.Date()
	// time.Date normalises d+1 across month and year ends.
	return time.Date(y, m, d+1, 0, 0, 0, 0, k.loc)
}

// Ensure LocationKeyer implements Keyer
var _ Keyer = (*LocationKeyer)(nil)
