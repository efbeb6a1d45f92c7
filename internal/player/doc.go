// Package player holds the Player/PlayerConfig data model and the
// offline-UUID derivation, plus display-name
// validation using a grapheme-aware scanner so multi-codepoint emoji or
// combining marks can't be used to smuggle a name past the 16-byte cap.
package player
