// Package slug derives URL-safe article identifiers from titles.
package slug

import (
	"strconv"
	"strings"
	"time"

	gosimple "github.com/gosimple/slug"
)

// Make turns a title into its candidate slug: trimmed, lowercased,
// transliterated to ASCII and reduced to letters, digits and hyphens.
func Make(title string) string {
	return gosimple.Make(strings.TrimSpace(title))
}

// WithTimestamp disambiguates a taken candidate by appending the current
// epoch milliseconds. Best effort only: the check that led here and the
// subsequent write are not atomic, the unique index has the final say.
func WithTimestamp(candidate string) string {
	return candidate + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}
