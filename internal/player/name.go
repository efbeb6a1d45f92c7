package player

import (
	"errors"

	"github.com/clipperhouse/uax29/v2/graphemes"
)

// MaxDisplayNameBytes is the protocol's display-name cap.
const MaxDisplayNameBytes = 16

// ErrDisplayNameTooLong is returned by ValidateDisplayName.
var ErrDisplayNameTooLong = errors.New("player: display name exceeds 16 bytes")

// ErrDisplayNameEmpty is returned for a zero-length name.
var ErrDisplayNameEmpty = errors.New("player: display name is empty")

// ValidateDisplayName checks both the raw byte cap and the grapheme
// count, since a name built from combining marks or multi-codepoint
// emoji can be under 16 bytes yet render as far fewer "characters" than
// a naive len(name) check would suggest, or vice versa where a
// multi-byte grapheme cluster pushes the byte count over the limit
// without the rune count doing so.
func ValidateDisplayName(name string) error {
	if len(name) == 0 {
		return ErrDisplayNameEmpty
	}
	if len(name) > MaxDisplayNameBytes {
		return ErrDisplayNameTooLong
	}

	seg := graphemes.FromString(name)
	count := 0
	for seg.Next() {
		count++
	}
	if count > MaxDisplayNameBytes {
		return ErrDisplayNameTooLong
	}
	return nil
}
