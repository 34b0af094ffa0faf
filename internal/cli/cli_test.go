package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgpai22/cueline/internal/caption"
	"github.com/mgpai22/cueline/internal/subtitle"
)

// flag values persist on the package level commands between runs
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSRT(t *testing.T, captions []caption.Caption) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talk.srt")
	text, err := subtitle.EncodeSRT(captions)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func readCaptions(t *testing.T, path string) []caption.Caption {
	t.Helper()
	got, _, err := subtitle.Open(path)
	require.NoError(t, err)
	return got
}

func TestCaptionsAddCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.srt")

	out, err := run(t, "captions", "add", path, "--at", "1.5", "--text", "Hello")
	require.NoError(t, err)
	assert.Contains(t, out, "Added caption 0 at 00:01.500")

	_, err = run(t, "captions", "add", path, "--at", "10", "--text", "World")
	require.NoError(t, err)

	assert.Equal(t, []caption.Caption{
		{Start: 1.5, End: 6.5, Text: "Hello"},
		{Start: 10, End: 15, Text: "World"},
	}, readCaptions(t, path))
}

func TestCaptionsAddRejectsBlankText(t *testing.T) {
	path := writeSRT(t, []caption.Caption{{Start: 0, End: 5, Text: "Hi"}})

	_, err := run(t, "captions", "add", path, "--at", "2", "--text", "   ")
	assert.ErrorIs(t, err, caption.ErrEmptyText)
	assert.Len(t, readCaptions(t, path), 1)
}

func TestCaptionsEditAndDelete(t *testing.T) {
	path := writeSRT(t, []caption.Caption{
		{Start: 0, End: 5, Text: "a"},
		{Start: 5, End: 10, Text: "b"},
		{Start: 10, End: 15, Text: "c"},
	})

	_, err := run(t, "captions", "edit", path, "1", "end", "9.25")
	require.NoError(t, err)

	_, err = run(t, "captions", "edit", path, "0", "start", "abc")
	assert.ErrorIs(t, err, caption.ErrInvalidNumber)

	_, err = run(t, "captions", "delete", path, "0")
	require.NoError(t, err)

	assert.Equal(t, []caption.Caption{
		{Start: 5, End: 9.25, Text: "b"},
		{Start: 10, End: 15, Text: "c"},
	}, readCaptions(t, path))

	_, err = run(t, "captions", "delete", path, "7")
	assert.ErrorIs(t, err, caption.ErrIndexOutOfRange)
}

func TestCaptionsList(t *testing.T) {
	path := writeSRT(t, []caption.Caption{{Start: 61.25, End: 62, Text: "Hi"}})

	out, err := run(t, "captions", "list", path)
	require.NoError(t, err)
	assert.Contains(t, out, "01:01.250 - Hi")

	out, err = run(t, "captions", "list", path, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"label": "01:01.250 - Hi"`)
}

func TestCaptionsClearWritesEmptyFile(t *testing.T) {
	path := writeSRT(t, []caption.Caption{{Start: 0, End: 5, Text: "Hi"}})

	_, err := run(t, "captions", "clear", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Empty(t, readCaptions(t, path))
}

func TestCaptionsOutputChangesFormat(t *testing.T) {
	path := writeSRT(t, []caption.Caption{{Start: 0, End: 5, Text: "Hi"}})
	out := filepath.Join(t.TempDir(), "talk.vtt")

	_, err := run(t, "captions", "edit", path, "0", "text", "Hello", "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "WEBVTT"))
	assert.Equal(t, "Hi", readCaptions(t, path)[0].Text)
}

func TestExport(t *testing.T) {
	path := writeSRT(t, []caption.Caption{{Start: 0, End: 5, Text: "Hi"}})

	out, err := run(t, "export", path, "-f", "vtt")
	require.NoError(t, err)
	assert.Contains(t, out, "Format: vtt")

	vttPath := strings.TrimSuffix(path, ".srt") + ".vtt"
	assert.Equal(t, []caption.Caption{{Start: 0, End: 5, Text: "Hi"}}, readCaptions(t, vttPath))
}

func TestExportToStdout(t *testing.T) {
	path := writeSRT(t, []caption.Caption{{Start: 0, End: 5, Text: "Hi"}})

	out, err := run(t, "export", path, "-f", "srt", "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, "1\n00:00:00,000 --> 00:00:05,000\nHi\n\n", out)
}

func TestExportRefusesEmptyInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.srt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := run(t, "export", path, "-f", "vtt")
	assert.ErrorIs(t, err, subtitle.ErrEmptyInput)
}

func TestExportUnknownFormat(t *testing.T) {
	path := writeSRT(t, []caption.Caption{{Start: 0, End: 5, Text: "Hi"}})

	_, err := run(t, "export", path, "-f", "docx")
	assert.ErrorIs(t, err, subtitle.ErrUnsupportedFormat)
}

func TestTranslateRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	path := writeSRT(t, []caption.Caption{{Start: 0, End: 5, Text: "Hi"}})

	_, err := run(t, "translate", path, "-t", "french", "--provider", "gemini")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestTranslateRejectsSameLanguage(t *testing.T) {
	path := writeSRT(t, []caption.Caption{{Start: 0, End: 5, Text: "Hi"}})

	_, err := run(t, "translate", path, "-t", "French", "--from", "french")
	assert.Error(t, err)
}

func TestLicense(t *testing.T) {
	out, err := run(t, "license")
	require.NoError(t, err)
	assert.Contains(t, out, "MIT License")
}

func TestMissingExplicitConfig(t *testing.T) {
	_, err := run(t, "license", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
