package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBeautifyRemovesBoldMarkers(t *testing.T) {
	got := Beautify("This is **important** text", 80)
	assert.NotContains(t, got, "**")
	assert.Contains(t, got, "important")
}

func TestBeautifyBreaksNumberedSections(t *testing.T) {
	got := Beautify("Summary: 1. Fever 2. Cough", 80)
	lines := strings.Split(got, "\n")
	assert.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, got, "1. Fever")
	assert.Contains(t, got, "2. Cough")
}

func TestBeautifyConvertsBullets(t *testing.T) {
	got := Beautify("Symptoms:\n* fever\n* cough", 80)
	assert.Contains(t, got, "- fever")
	assert.Contains(t, got, "- cough")
	assert.NotContains(t, got, "*")
}

func TestWrap(t *testing.T) {
	got := Wrap("one two three four five", 10)
	for _, line := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, len(line), 10)
	}
	assert.Equal(t, "one two three four five", strings.ReplaceAll(got, "\n", " "))
}

func TestWrapLongWordKept(t *testing.T) {
	got := Wrap("short extraordinarily-long-word end", 10)
	assert.Contains(t, got, "extraordinarily-long-word")
}

func TestWrapEmpty(t *testing.T) {
	assert.Equal(t, "", Wrap("   ", 10))
	assert.Equal(t, "abc", Wrap("abc", 0))
}
