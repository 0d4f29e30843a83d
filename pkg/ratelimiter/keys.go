package ratelimiter

import (
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"

	"github.com/nexsuite/authcore/pkg/clientip"
)

// maxKeyLength caps stored key length; longer keys are hashed.
const maxKeyLength = 64

// KeyFunc derives a rate limit key from a request.
type KeyFunc func(r *http.Request) string

// ByClientIP keys buckets on the originating client address.
func ByClientIP(r *http.Request) string {
	return clientip.FromRequest(r)
}

// ByEndpoint keys buckets on method and path.
func ByEndpoint(r *http.Request) string {
	return r.Method + " " + r.URL.Path
}

// Composite joins multiple key functions with ":". Keys longer than 64
// characters are FNV-hashed to keep storage keys compact.
func Composite(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(keyFuncs))
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}
		if len(parts) == 0 {
			return ""
		}

		combined := strings.Join(parts, ":")
		if len(combined) > maxKeyLength {
			h := fnv.New64a()
			h.Write([]byte(combined))
			return strconv.FormatUint(h.Sum64(), 36)
		}
		return combined
	}
}
