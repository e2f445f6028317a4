// ABOUTME: Tag model and the TagName value object.
// ABOUTME: Normalizes tag names to lowercase with trimmed whitespace.

package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/harper/catalog/internal/textutil"
)

const MaxTagNameLength = 256

// TagName is a validated tag name. Equality is defined on Normalized only.
type TagName struct {
	value      string
	normalized string
}

// NewTagName trims raw and checks it is non-empty and at most
// MaxTagNameLength characters long.
func NewTagName(raw string) (TagName, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return TagName{}, invalid("tag", "tag name cannot be empty or whitespace")
	}
	if textutil.CodeUnits(trimmed) > MaxTagNameLength {
		return TagName{}, invalid("tag", "tag name cannot be longer than %d characters", MaxTagNameLength)
	}
	return TagName{value: trimmed, normalized: NormalizeTagName(trimmed)}, nil
}

// NormalizeTagName returns the canonical form used for tag equality.
// Case mapping is per code point and does not depend on the user's locale.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Value is the trimmed name in its original casing.
func (n TagName) Value() string { return n.value }

// Normalized is the lowercase form of Value.
func (n TagName) Normalized() string { return n.normalized }

// Equal compares two names by their normalized form.
func (n TagName) Equal(other TagName) bool { return n.normalized == other.normalized }

func (n TagName) String() string { return n.value }

type Tag struct {
	ID             uuid.UUID
	Name           string
	NameNormalized string
}

func NewTag(id uuid.UUID, name TagName) (*Tag, error) {
	if id == uuid.Nil {
		return nil, invalid("tag id", "tag id cannot be empty")
	}
	return &Tag{
		ID:             id,
		Name:           name.Value(),
		NameNormalized: name.Normalized(),
	}, nil
}
