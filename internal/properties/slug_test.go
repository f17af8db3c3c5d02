package properties

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugifyTruncatesTitleAndAppendsTimestamp(t *testing.T) {
	at := time.Unix(1700000000, 0)
	ts := strconv.FormatInt(at.Unix(), 10)

	assert.Equal(t, "cozy-lakeside-c"+ts, Slugify("Cozy Lakeside Cottage", at))
	assert.Equal(t, "loft"+ts, Slugify("Loft", at))
}

func TestSlugifyNormalizesTitle(t *testing.T) {
	at := time.Unix(1700000000, 0)
	ts := strconv.FormatInt(at.Unix(), 10)

	assert.Equal(t, "chateau-margaux"+ts, Slugify("Château Margaux!", at))
	assert.Equal(t, "3-bed-2-bath"+ts, Slugify("  3 Bed / 2 Bath  ", at))
	assert.Equal(t, ts, Slugify("粤语", at), "titles with no latin letters slug to the timestamp alone")
}

func TestSlugifyDistinctAcrossSeconds(t *testing.T) {
	first := Slugify("Same Title Here", time.Unix(1700000000, 0))
	second := Slugify("Same Title Here", time.Unix(1700000001, 0))
	assert.NotEqual(t, first, second)
}
