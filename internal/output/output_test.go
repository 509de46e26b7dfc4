package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_Status(t *testing.T) {
	// Given: a plain writer
	buf := &bytes.Buffer{}
	w := New(buf, true)

	// When: printing with and without an icon
	w.Status("*", "Scanning")
	w.Status("", "details")

	// Then: the icon leads and the bare line is indented
	assert.Equal(t, "* Scanning\n   details\n", buf.String())
}

func TestWriter_LevelsKeepText(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, true)

	w.Successf("saved %d words", 3)
	w.Warningf("skipped %s", "a.bin")
	w.Errorf("failed")

	assert.Equal(t, "✓ saved 3 words\n! skipped a.bin\n✗ failed\n", buf.String())
}

func TestWriter_Field(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, true)

	w.Field("Words", 42)

	assert.Equal(t, "  Words:       42\n", buf.String())
}

func TestWriter_HeaderAndCode(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, true)

	w.Header("Config")
	w.Code("a: 1\nb: 2\n")
	w.Newline()

	assert.Equal(t, "Config\n\n  a: 1\n  b: 2\n\n\n", buf.String())
}

func TestWriter_ColorStillContainsMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, false)

	w.Successf("done")

	assert.Contains(t, buf.String(), "done")
}
