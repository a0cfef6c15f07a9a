package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBuildData(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })
	Version = "v0.3.1"

	var buf bytes.Buffer
	PrintBuildData(&buf)

	assert.Contains(t, buf.String(), "Build version: v0.3.1")
	assert.Contains(t, buf.String(), "Build date: N/A")
	assert.Contains(t, buf.String(), "Build commit: N/A")
}
