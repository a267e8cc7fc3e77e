package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixSession  = "sess"
	PrefixSnapshot = "snap"
)

// New returns a fresh id with the given prefix, e.g. "sess_01h2x...".
func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewSessionID() string  { return New(PrefixSession) }
func NewSnapshotID() string { return New(PrefixSnapshot) }

// Validate checks that id parses as a typeid and carries expectedPrefix.
func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
