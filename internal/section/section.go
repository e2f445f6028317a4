// ABOUTME: Section identity derived from a set of normalized tag names.
// ABOUTME: Builds the canonical key, its content-addressed ID and the display name.

package section

import (
	"crypto/sha256"
	"errors"
	"iter"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/harper/catalog/internal/textutil"
)

const (
	// KeySeparator joins normalized tag names inside a section key.
	KeySeparator = "|"

	// NameSeparator joins display tag names inside a section name.
	NameSeparator = ", "

	// MaxNameLength caps a section name, in UTF-16 code units.
	MaxNameLength = 1024
)

// ErrNilNames is returned when a name sequence is absent. An empty
// sequence is valid.
var ErrNilNames = errors.New("tag names must not be nil")

// Key returns the canonical section key for a set of normalized tag names:
// distinct values, sorted ordinally, joined with "|". Input order and
// duplicates do not affect the result. No tags yields "".
func Key(normalized iter.Seq[string]) (string, error) {
	if normalized == nil {
		return "", ErrNilNames
	}

	seen := make(map[string]struct{})
	var distinct []string
	for name := range normalized {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		distinct = append(distinct, name)
	}
	slices.Sort(distinct)

	return strings.Join(distinct, KeySeparator), nil
}

// ID returns the section identifier for a key: the first 16 bytes of the
// SHA-256 digest of the key's UTF-8 bytes. An empty key maps to uuid.Nil.
//
// The digest bytes are laid out the way .NET's Guid(byte[]) reads them
// (first three groups little-endian), so the textual form matches the
// section IDs that .NET clients compute for the same key.
func ID(key string) uuid.UUID {
	if key == "" {
		return uuid.Nil
	}

	sum := sha256.Sum256([]byte(key))

	var id uuid.UUID
	id[0], id[1], id[2], id[3] = sum[3], sum[2], sum[1], sum[0]
	id[4], id[5] = sum[5], sum[4]
	id[6], id[7] = sum[7], sum[6]
	copy(id[8:], sum[8:16])
	return id
}

// Name builds a display name from tag names: sorted ordinally, joined with
// ", " and cut to MaxNameLength. Names are not deduplicated here; callers
// pass a distinct list.
func Name(names iter.Seq[string]) (string, error) {
	if names == nil {
		return "", ErrNilNames
	}

	sorted := slices.Sorted(names)
	return textutil.Truncate(strings.Join(sorted, NameSeparator), MaxNameLength), nil
}

// Identity is the full section identity of one tag set.
type Identity struct {
	ID  uuid.UUID
	Key string
}

// Of computes the key and ID of a set of normalized tag names.
func Of(normalized []string) Identity {
	// A slice-backed sequence is never nil, so Key cannot fail here.
	key, _ := Key(slices.Values(normalized))
	return Identity{ID: ID(key), Key: key}
}
