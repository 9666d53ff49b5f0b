package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStringHelpers(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "  ", " b ", "c"))
	assert.Equal(t, "SYD", UpperCode(" syd "))
	assert.Equal(t, []string{"a", "b"}, CleanList([]string{" a", "", "b", "a "}))
	assert.Equal(t, []string{"x", "y", "z"}, SplitList("x, y;\nz,,"))
	assert.Equal(t, "my_file_.pdf", SanitizeFileName("my file?.pdf"))
	assert.Equal(t, "a b", NormalizeSpace("  a \t b "))
	assert.True(t, TruthyString("Yes"))
	assert.False(t, TruthyString("0"))
}

func TestParseFlexibleTime(t *testing.T) {
	got, ok := ParseFlexibleTime("2025-04-01")
	assert.True(t, ok)
	assert.Equal(t, "2025-04-01", FormatDate(got))

	got, ok = ParseFlexibleTime("2025-04-01T10:00:00Z")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC), got.UTC())

	_, ok = ParseFlexibleTime("next tuesday")
	assert.False(t, ok)
	assert.Equal(t, "", FormatISO(time.Time{}))
}
