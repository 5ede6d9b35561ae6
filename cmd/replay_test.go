package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cardScript = filepath.Join("..", "internal", "replay", "testdata", "card_onto_zone.yaml")

func TestReplayCmd(t *testing.T) {
	t.Run("json to stdout", func(t *testing.T) {
		out, _, err := execute(t, "replay", cardScript)
		require.NoError(t, err)

		var res struct {
			Name    string `json:"name"`
			Actions []struct {
				Action string `json:"action"`
			} `json:"actions"`
			DropResult string `json:"dropResult"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, "card onto zone", res.Name)
		require.Len(t, res.Actions, 7)
		assert.Equal(t, "beginDrag", res.Actions[0].Action)
		assert.Equal(t, "zone", res.DropResult)
	})

	t.Run("yaml flag", func(t *testing.T) {
		out, _, err := execute(t, "replay", "--format", "yaml", cardScript)
		require.NoError(t, err)
		assert.Contains(t, out, "- action: beginDrag")
		assert.Contains(t, out, "dropResult: zone")
	})

	t.Run("format from config file", func(t *testing.T) {
		cfgPath := writeFile(t, "config.yaml", "replay:\n  format: yaml\n")
		out, _, err := execute(t, "--config", cfgPath, "replay", cardScript)
		require.NoError(t, err)
		assert.Contains(t, out, "- action: beginDrag")
	})

	t.Run("compact json", func(t *testing.T) {
		out, _, err := execute(t, "replay", "--pretty=false", cardScript)
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(out, "\n"))
	})

	t.Run("output file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trace.json")
		out, _, err := execute(t, "replay", "-o", path, cardScript)
		require.NoError(t, err)
		assert.Empty(t, out)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"endDrag"`)
	})

	t.Run("several scripts keep argument order", func(t *testing.T) {
		dir := filepath.Join("..", "internal", "replay", "testdata")
		args := []string{"replay", "--pretty=false"}
		for _, name := range []string{"native_file", "card_onto_zone", "escape_cancel", "drag_macro"} {
			args = append(args, filepath.Join(dir, name+".yaml"))
		}
		out, _, err := execute(t, args...)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 4)
		var names []string
		for _, line := range lines {
			var res struct {
				Name string `json:"name"`
			}
			require.NoError(t, json.Unmarshal([]byte(line), &res))
			names = append(names, res.Name)
		}
		assert.Equal(t, []string{
			"file dropped outside every target",
			"card onto zone",
			"escape cancels and swallows the trailing click",
			"interpolated drag",
		}, names)
	})

	t.Run("threshold flag", func(t *testing.T) {
		// The first move is 5px from the press. At 6px it no longer begins the
		// drag, so the script's expected trace no longer matches.
		out, errOut, err := execute(t, "replay", "--threshold", "6", "--format", "yaml", cardScript)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 1 scripts failed")
		assert.Contains(t, errOut, "expectation failed: actions")
		assert.Contains(t, out, "dropResult: zone")
	})
}

func TestReplayCmd_Errors(t *testing.T) {
	t.Run("no scripts", func(t *testing.T) {
		_, _, err := execute(t, "replay")
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := execute(t, "replay", "--format", "xml", cardScript)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "replay.format")
	})

	t.Run("negative threshold", func(t *testing.T) {
		_, _, err := execute(t, "replay", "--threshold", "-1", cardScript)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "drag_threshold")
	})

	t.Run("missing script", func(t *testing.T) {
		_, _, err := execute(t, "replay", filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read script")
	})

	t.Run("failed expectation", func(t *testing.T) {
		script := writeFile(t, "bad.yaml", `
name: wrong expectation
html: "<html><body><div id='card'></div></body></html>"
steps:
  - {event: keydown, key: Escape}
expect:
  actions: [beginDrag]
`)
		out, errOut, err := execute(t, "replay", script)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 1 scripts failed")
		assert.Contains(t, errOut, "FAIL "+script)
		assert.Contains(t, out, `"name": "wrong expectation"`, "the trace is still written")
	})
}
