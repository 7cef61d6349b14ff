package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// ShortSHA256 returns the first n hex characters of SHA256(input).
// Used to correlate IPs and user ids in logs without storing them.
func ShortSHA256(input string, n int) string {
	full := SHA256Hex(input)
	if n > len(full) || n <= 0 {
		return full
	}
	return full[:n]
}

// ContextFingerprint derives the analysis cache key for a segment and the
// neighbor ids that were sent as its context. Neighbor order does not
// matter: ids are sorted before hashing. The result is a 16-char hex
// xxhash64 digest of "<segmentID>-<id,id,...>".
func ContextFingerprint(segmentID int64, neighborIDs []int64) string {
	ids := slices.Clone(neighborIDs)
	slices.Sort(ids)

	var b strings.Builder
	b.WriteString(strconv.FormatInt(segmentID, 10))
	b.WriteByte('-')
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}

	return fmt.Sprintf("%016x", xxhash.Sum64String(b.String()))
}
