package properties

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const slugTitleLen = 15

var marksRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives the URL identifier for a new property: the slugified
// title truncated to 15 characters with the creation Unix timestamp
// appended. Uniqueness rests on the timestamp suffix alone; two creates
// in the same second can collide, and the insert's unique index is the
// backstop.
func Slugify(title string, at time.Time) string {
	return slugTitle(title) + strconv.FormatInt(at.Unix(), 10)
}

func slugTitle(title string) string {
	folded, _, err := transform.String(marksRemover, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	s := strings.TrimRight(b.String(), "-")
	if len(s) > slugTitleLen {
		s = s[:slugTitleLen]
	}
	return s
}
