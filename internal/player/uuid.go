package player

import (
	"crypto/md5"

	"github.com/google/uuid"
)

// OfflineUUID derives a deterministic UUID for a player name the way the
// vanilla offline-mode server does: MD5("OfflinePlayer:"+name), then the
// version nibble is patched to 3 (name-based MD5) and the variant bits to
// IETF. This core has no online-mode login, so every player UUID is
// derived this way.
func OfflineUUID(name string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + name))
	sum[6] = (sum[6] & 0x0F) | 0x30
	sum[8] = (sum[8] & 0x3F) | 0x80
	var out uuid.UUID
	copy(out[:], sum[:])
	return out
}
