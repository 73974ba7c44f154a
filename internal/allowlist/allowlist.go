// Package allowlist decides whether a single kernel command line token is
// permitted, by exact match or by declared prefix.
package allowlist

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// PrefixSentinel marks a prefix entry in the compact text notation.
const PrefixSentinel = '^'

// Kind is the match kind of an allow-list entry.
type Kind int

const (
	// KindExact matches a token that is byte-equal to the entry.
	KindExact Kind = iota
	// KindPrefix matches any token starting with the entry.
	KindPrefix
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindPrefix:
		return "prefix"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Entry is one allow-list rule.
type Entry struct {
	Kind  Kind
	Value string
}

// Exact returns an entry matching exactly value.
func Exact(value string) Entry {
	return Entry{Kind: KindExact, Value: value}
}

// Prefix returns an entry matching any token that starts with value.
func Prefix(value string) Entry {
	return Entry{Kind: KindPrefix, Value: value}
}

// ParseEntry reads the compact notation, where a leading '^' marks a prefix
// entry and anything else is exact.
func ParseEntry(s string) (Entry, error) {
	if s == "" || s == string(PrefixSentinel) {
		return Entry{}, fmt.Errorf("allowlist: empty entry %q", s)
	}
	if s[0] == PrefixSentinel {
		return Prefix(s[1:]), nil
	}
	return Exact(s), nil
}

// String renders the entry in compact notation.
func (e Entry) String() string {
	if e.Kind == KindPrefix {
		return string(PrefixSentinel) + e.Value
	}
	return e.Value
}

// Matches reports whether token is admitted by this entry.
// Comparison is byte-wise and case-sensitive.
func (e Entry) Matches(token []byte) bool {
	switch e.Kind {
	case KindExact:
		return string(token) == e.Value
	case KindPrefix:
		return bytes.HasPrefix(token, []byte(e.Value))
	default:
		return false
	}
}

// Table is an ordered, read-only set of entries.
type Table []Entry

// Match returns the first entry admitting token.
func (t Table) Match(token []byte) (Entry, bool) {
	for _, e := range t {
		if e.Matches(token) {
			return e, true
		}
	}
	return Entry{}, false
}

// IsAllowed reports whether any entry admits token.
func (t Table) IsAllowed(token []byte) bool {
	_, ok := t.Match(token)
	return ok
}

// Hash returns a stable "sha256:<hex>" fingerprint of the table contents,
// used to tie audit records to the policy that produced them.
func (t Table) Hash() string {
	h := sha256.New()
	for _, e := range t {
		fmt.Fprintf(h, "%s\x00%s\n", e.Kind, e.Value)
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil))
}

// String renders the table one compact entry per line.
func (t Table) String() string {
	var b strings.Builder
	for _, e := range t {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// IsAllowed checks token against the Default table.
func IsAllowed(token []byte) bool {
	return Default.IsAllowed(token)
}
