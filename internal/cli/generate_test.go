package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/blurbs/internal/config"
	clierrors "github.com/ariel-frischer/blurbs/internal/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// These tests drive the global rootCmd and cannot run in parallel.

func writeBlurbs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "blurbs")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

// isolate runs the test from an empty working directory with a fixed
// changelog date.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SOURCE_DATE_EPOCH", "1700000000")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEBUG", "")
	return dir
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err = Execute()
	return out.String(), errOut.String(), err
}

// resetFlags clears flag values left behind on the shared command tree.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

var validBlurbs = map[string]string{
	"jane-doe.yaml":   "author: Jane Doe\n---\ntype: new\ndescription: add export\n",
	"john-adams.yaml": "author: John Adams\n---\ntype: fix\nissue: 7\ndescription: fix crash\n",
}

func TestGenerate(t *testing.T) {
	isolate(t)

	in := writeBlurbs(t, validBlurbs)
	out := t.TempDir()

	stdout, stderr, err := execute(t, "generate", "-r", "2.0.0", "-p", "1.0.0", "-i", in, "-o", out, "--shortlog", "blurbs")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "RELEASE.txt")
	assert.Contains(t, stdout, "CHANGES.txt")
	assert.Contains(t, stdout, "2 changes from 2 blurbs by 2 contributors")
	assert.Contains(t, stderr, `"message":"processing blurb file"`)

	release, err := os.ReadFile(filepath.Join(out, "RELEASE.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(release), "Release 2.0.0")
	assert.Contains(t, string(release), " * Fix crash (#7)")

	changes, err := os.ReadFile(filepath.Join(out, "CHANGES.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(changes), "Generated Tue, 14 Nov 2023 22:13:20 +0000")
	assert.Less(t, bytes.Index(changes, []byte("[ John Adams ]")), bytes.Index(changes, []byte("[ Jane Doe ]")))
}

func TestGenerate_InvalidBlurb(t *testing.T) {
	isolate(t)

	in := writeBlurbs(t, map[string]string{
		"jane-doe.yaml": "author: Jane Doe\n---\ntype: new\ndescription: add export\nnotes: extra\n",
	})
	out := t.TempDir()

	_, stderr, err := execute(t, "generate", "-r", "2.0.0", "-p", "1.0.0", "-i", in, "-o", out, "--shortlog", "blurbs")
	require.Error(t, err)
	assert.Equal(t, ExitValidationFailed, ExitCode(err))
	assert.Contains(t, stderr, "jane-doe.yaml")
	assert.Contains(t, stderr, "To fix this:")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate_ArgumentErrors(t *testing.T) {
	isolate(t)

	in := writeBlurbs(t, validBlurbs)

	tests := map[string]struct {
		args []string
	}{
		"missing input dir": {
			args: []string{"generate", "-i", filepath.Join(t.TempDir(), "nope"), "-o", t.TempDir(), "--shortlog", "blurbs"},
		},
		"bad shortlog source": {
			args: []string{"generate", "-i", in, "-o", t.TempDir(), "--shortlog", "svn"},
		},
		"unknown flag": {
			args: []string{"generate", "--releese", "2.0.0"},
		},
		"missing template dir": {
			args: []string{"generate", "-i", in, "-o", t.TempDir(), "--shortlog", "blurbs", "-t", filepath.Join(t.TempDir(), "nope")},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			require.NotNil(t, clierrors.AsCLIError(err))
			assert.Equal(t, ExitInvalidArguments, ExitCode(err))
		})
	}

	require.NoError(t, generateCmd.Flags().Set("templates", ""))
	require.NoError(t, generateCmd.Flags().Set("shortlog", "blurbs"))
}

func TestCheck(t *testing.T) {
	isolate(t)

	in := writeBlurbs(t, validBlurbs)
	out := t.TempDir()

	stdout, stderr, err := execute(t, "check", "-i", in, "-o", out, "--shortlog", "none")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "2 blurbs valid (2 changes)")
	assert.Contains(t, stdout, "Bug Fixes")
	assert.Contains(t, stdout, "John Adams (1)")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries, "check must not write artifacts")
}

func TestVersionCmd_Plain(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "version", "--plain")
	require.NoError(t, err)
	assert.Contains(t, stdout, "blurbs ")
	assert.Contains(t, stdout, "commit: ")
	assert.Contains(t, stdout, "go: ")
}

func TestConfigInit(t *testing.T) {
	isolate(t)
	t.Cleanup(func() { configInitForce = false })

	stdout, _, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, ".blurbs.yml")

	data, err := os.ReadFile(".blurbs.yml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "shortlog: blurbs")

	_, stderr, err := execute(t, "config", "init")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
	assert.Contains(t, stderr, "--force")

	_, _, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".blurbs.yml"), []byte("version: 5.0.0\n"), 0o644))
	t.Setenv("BLURBS_PREVIOUS_VERSION", "4.9.0")

	stdout, _, err := execute(t, "config", "show", "--shortlog", "none")
	require.NoError(t, err)
	assert.Contains(t, stdout, "version: 5.0.0\n")
	assert.Contains(t, stdout, "previous_version: 4.9.0\n")
	assert.Contains(t, stdout, "shortlog: none\n")
}

func TestConfigShow_RoundTripsQuotedValues(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "config", "show", "--output", "out: dir", "--release", "#1")
	require.NoError(t, err)

	var shown config.Configuration
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &shown))
	assert.Equal(t, "out: dir", shown.OutputDir)
	assert.Equal(t, "#1", shown.Version)
	assert.Equal(t, "", shown.TemplateDir)
	assert.Equal(t, "", shown.LogLevel)
}

func TestGenerate_LogLevelFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("LOG_LEVEL", "debug")
	in := writeBlurbs(t, validBlurbs)

	_, stderr, err := execute(t, "generate", "-r", "2.0.0", "-i", in, "-o", t.TempDir(), "--shortlog", "none")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"level":"debug"`)
}
