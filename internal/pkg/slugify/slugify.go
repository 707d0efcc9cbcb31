package slugify

import (
	"regexp"
	"strconv"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make derives a URL-safe slug from a title plus a disambiguating suffix
// (typically a timestamp supplied by the caller). Deterministic for a fixed
// disambiguator; uniqueness is the caller's problem, enforced by the storage
// layer's unique index. A title with no alphanumeric characters yields just
// "-<disambiguator>", which is still a valid URL segment.
func Make(title string, disambiguator int64) string {
	stem := strings.ToLower(title)
	stem = nonAlnum.ReplaceAllString(stem, "-")
	stem = strings.Trim(stem, "-")
	return stem + "-" + strconv.FormatInt(disambiguator, 10)
}
