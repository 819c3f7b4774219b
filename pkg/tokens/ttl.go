package tokens

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTTL is used whenever a TTL expression can't be parsed.
const DefaultTTL = 7 * 24 * time.Hour

var ttlPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

var ttlUnits = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
}

// ParseTTL converts an expression such as "30m", "12h" or "7D" into a
// duration. Anything that doesn't match <integer><unit> falls back to
// DefaultTTL rather than failing.
func ParseTTL(expr string) time.Duration {
	m := ttlPattern.FindStringSubmatch(strings.ToLower(expr))
	if m == nil {
		return DefaultTTL
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return DefaultTTL
	}

	unit := ttlUnits[m[2]]
	if n > int64(time.Duration(1<<63-1)/unit) {
		return DefaultTTL
	}
	return time.Duration(n) * unit
}
