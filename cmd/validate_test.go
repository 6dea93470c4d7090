package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunValidate_Valid(t *testing.T) {
	path := writeConfig(t, `
strix:
  source:
    type: "udp"
    listen: ":5555"
`)

	var out bytes.Buffer
	err := runValidate(path, &out)

	assert.NoError(t, err)
	assert.Contains(t, out.String(), "VALID: udp source")
	assert.Contains(t, out.String(), "1 reporter(s)")
	assert.Contains(t, out.String(), "log level info")
}

func TestRunValidate_UnknownKey(t *testing.T) {
	path := writeConfig(t, `
strix:
  sourec:
    type: "udp"
`)

	var out bytes.Buffer
	err := runValidate(path, &out)

	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestRunValidate_BadValue(t *testing.T) {
	path := writeConfig(t, `
strix:
  log:
    level: "verbose"
`)

	var out bytes.Buffer
	err := runValidate(path, &out)

	assert.Error(t, err)
}

func TestRunValidate_MissingFile(t *testing.T) {
	var out bytes.Buffer
	err := runValidate("/nonexistent/config.yml", &out)

	assert.Error(t, err)
}
