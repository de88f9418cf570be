package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleDiff = "--- a\n+++ b\n@@ -1 +1 @@\n-old\n+new\n same\n"

func TestWriteDiffPlain(t *testing.T) {
	var buf bytes.Buffer
	writeDiff(&buf, sampleDiff, false)
	assert.Equal(t, sampleDiff, buf.String())
}

func TestWriteDiffColor(t *testing.T) {
	var buf bytes.Buffer
	writeDiff(&buf, sampleDiff, true)
	out := buf.String()
	assert.Contains(t, out, "\x1b[31m-old\x1b[0m\n")
	assert.Contains(t, out, "\x1b[32m+new\x1b[0m\n")
	assert.Contains(t, out, "\x1b[1m--- a\x1b[0m\n")
	assert.Contains(t, out, " same\n")
}
