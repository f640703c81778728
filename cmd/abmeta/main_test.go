package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domfetch "github.com/kailas-cloud/abmeta/internal/domain/fetch"
	"github.com/kailas-cloud/abmeta/internal/version"
)

const testConfig = `
database:
  addrs: [localhost:6379]
logging:
  level: error
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// run executes the root command and returns stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, _, err := run(t, "", "--config", "/does/not/exist.yaml", "version")
	require.NoError(t, err)
	assert.Equal(t, version.String()+"\n", out)
}

func TestMapCmd(t *testing.T) {
	cfg := writeFile(t, "config.yaml", testConfig)
	doc := writeFile(t, "doc.json", `{
		"rhythm": {"bpm": 120},
		"tonal": {"key_key": "C", "key_scale": "major"}
	}`)

	out, stderr, err := run(t, "", "--config", cfg, "map", doc)
	require.NoError(t, err)
	assert.Equal(t, "bpm=120\ninitial_key=C major\n", out)
	assert.Empty(t, stderr, "diagnostics are off by default")
}

func TestMapCmd_Stdin(t *testing.T) {
	cfg := writeFile(t, "config.yaml", testConfig)

	out, _, err := run(t, `{"lowlevel":{"average_loudness":0.87}}`, "--config", cfg, "map", "-")
	require.NoError(t, err)
	assert.Equal(t, "average_loudness=0.87\n", out)
}

func TestMapCmd_Diagnostics(t *testing.T) {
	cfg := writeFile(t, "config.yaml", testConfig)

	_, stderr, err := run(t, `{"rhythm":"fast"}`, "--config", cfg, "map", "--diagnostics", "-")
	require.NoError(t, err)
	assert.Contains(t, stderr, "shape_mismatch\t\trhythm")
	assert.Contains(t, stderr, "missing_key\t\ttonal")
}

func TestMapCmd_InvalidDocument(t *testing.T) {
	cfg := writeFile(t, "config.yaml", testConfig)
	doc := writeFile(t, "doc.json", `[1, 2]`)

	_, _, err := run(t, "", "--config", cfg, "map", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doc.json")
}

func TestMapCmd_CustomScheme(t *testing.T) {
	scheme := writeFile(t, "scheme.yaml", "rhythm:\n  bpm: tempo\n")
	cfg := writeFile(t, "config.yaml", testConfig+"scheme:\n  file: "+scheme+"\n")

	out, _, err := run(t, `{"rhythm":{"bpm":98}}`, "--config", cfg, "map", "-")
	require.NoError(t, err)
	assert.Equal(t, "tempo=98\n", out)
}

func TestSchemeCmd(t *testing.T) {
	cfg := writeFile(t, "config.yaml", testConfig+"scheme:\n  composite_policy: overwrite\n")

	out, _, err := run(t, "", "--config", cfg, "scheme")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "danceable", lines[0])
	assert.Contains(t, lines, "initial_key")
	assert.Contains(t, lines, "bpm")
	assert.Equal(t, "composite policy: overwrite", lines[len(lines)-1])
}

func TestRootCmd_BadConfig(t *testing.T) {
	cfg := writeFile(t, "config.yaml", "database:\n  driver: mongo\n  addrs: [x]\n")

	_, _, err := run(t, "", "--config", cfg, "scheme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	printResults(&buf, []domfetch.Result{
		domfetch.NewOK("1", 12, true),
		domfetch.NewOK("2", 3, false),
		domfetch.NewSkipped("3"),
		domfetch.NewNotFound("4"),
		domfetch.NewError("5", errors.New("boom")),
	})

	assert.Equal(t, "1\tok\t12 attributes, written\n"+
		"2\tok\t3 attributes\n"+
		"3\tskipped\n"+
		"4\tnot_found\n"+
		"5\terror\tboom\n"+
		"5 items: 2 ok, 1 skipped, 1 not found, 1 failed\n", buf.String())
}
