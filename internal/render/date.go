package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SourceDateEpochEnv overrides the current time for reproducible builds.
// See https://reproducible-builds.org/specs/source-date-epoch/
const SourceDateEpochEnv = "SOURCE_DATE_EPOCH"

// DateLayout is RFC 2822 with a numeric zone offset.
const DateLayout = time.RFC1123Z

// Timestamp returns the changelog date. When SOURCE_DATE_EPOCH is set it is
// used instead of now and formatted in UTC, so the output only depends on
// the variable. An unparsable value is an error rather than a silent
// fallback to the clock.
func Timestamp(getenv func(string) string, now func() time.Time) (string, error) {
	if raw := strings.TrimSpace(getenv(SourceDateEpochEnv)); raw != "" {
		secs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid %s %q: must be integer seconds since the epoch", SourceDateEpochEnv, raw)
		}
		return time.Unix(secs, 0).UTC().Format(DateLayout), nil
	}
	return now().Format(DateLayout), nil
}
