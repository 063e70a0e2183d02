package store

import (
	"strings"

	"github.com/jonwraymond/dailypuzzle/daykey"
)

// DefaultPrefix is the object prefix used when none is configured.
const DefaultPrefix = "puzzles"

const objectSuffix = ".json"

// Layout maps day keys to object names under a prefix.
type Layout struct {
	prefix string
}

// NewLayout returns a Layout for prefix. Surrounding slashes are trimmed;
// an empty prefix becomes DefaultPrefix.
func NewLayout(prefix string) Layout {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Layout{prefix: prefix}
}

// Prefix returns the normalised prefix.
func (l Layout) Prefix() string {
	if l.prefix == "" {
		return DefaultPrefix
	}
	return l.prefix
}

// ListPrefix is the prefix passed to bucket listings.
func (l Layout) ListPrefix() string {
	return l.Prefix() + "/"
}

// ObjectName returns <prefix>/<key>.json.
func (l Layout) ObjectName(key daykey.Key) string {
	return l.ListPrefix() + key.String() + objectSuffix
}

// KeyFromObjectName is the inverse of ObjectName. ok is false for objects
// under the prefix that are not day records.
func (l Layout) KeyFromObjectName(name string) (daykey.Key, bool) {
	rest, found := strings.CutPrefix(name, l.ListPrefix())
	if !found {
		return "", false
	}
	rest, found = strings.CutSuffix(rest, objectSuffix)
	if !found {
		return "", false
	}
	key, err := daykey.Parse(rest)
	if err != nil {
		return "", false
	}
	return key, true
}
