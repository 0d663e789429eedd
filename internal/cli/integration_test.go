package cli_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cssbeautify/internal/cli"
	"github.com/yaklabco/cssbeautify/pkg/fsutil"
	"github.com/yaklabco/cssbeautify/pkg/reporter"
)

const (
	minifiedCSS  = "a{color:red}"
	formattedCSS = "a {\n    color: red;\n}\n"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

// emptyConfig writes an empty config file so tests do not depend on any
// project configuration around the working directory.
func emptyConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".cssbeautify.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// stylesheets creates a directory holding one minified and one formatted
// stylesheet.
func stylesheets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.css"), []byte(minifiedCSS), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.css"), []byte(formattedCSS), 0o644))
	return dir
}

func TestIntegration_Stdin(t *testing.T) {
	t.Parallel()

	cfg := emptyConfig(t, "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "defaults", args: nil, want: formattedCSS},
		{name: "indent flag", args: []string{"--indent", "2"}, want: "a {\n  color: red;\n}\n"},
		{name: "tab indent", args: []string{"--indent", "tab"}, want: "a {\n\tcolor: red;\n}\n"},
		{name: "no last semicolon", args: []string{"--no-last-semicolon"}, want: "a {\n    color: red\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			args := append([]string{"format", "--config", cfg}, tt.args...)
			args = append(args, "-")

			out, err := execute(t, strings.NewReader(minifiedCSS), args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestIntegration_StdinUsesConfigFile(t *testing.T) {
	t.Parallel()

	cfg := emptyConfig(t, "format:\n  indent: \"2\"\n  quote: single\n")

	out, err := execute(t, strings.NewReader(`a{content:"x"}`), "format", "--config", cfg, "-")
	require.NoError(t, err)
	assert.Equal(t, "a {\n  content: 'x';\n}\n", out)
}

func TestIntegration_StdinCheck(t *testing.T) {
	t.Parallel()

	cfg := emptyConfig(t, "")

	out, err := execute(t, strings.NewReader(minifiedCSS), "format", "--config", cfg, "--check", "-")
	require.ErrorIs(t, err, cli.ErrUnformatted)
	assert.Equal(t, cli.ExitUnformatted, cli.ExitCodeFromError(err))
	assert.Empty(t, out)

	_, err = execute(t, strings.NewReader(formattedCSS), "format", "--config", cfg, "--check", "-")
	require.NoError(t, err)
}

func TestIntegration_StdinDiff(t *testing.T) {
	t.Parallel()

	cfg := emptyConfig(t, "")

	out, err := execute(t, strings.NewReader(minifiedCSS), "format", "--config", cfg, "--diff", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "-a{color:red}\n")
	assert.Contains(t, out, "+    color: red;\n")
}

func TestIntegration_StdinRejectsWrite(t *testing.T) {
	t.Parallel()

	_, err := execute(t, strings.NewReader(minifiedCSS), "format", "--write", "-")
	require.ErrorIs(t, err, cli.ErrInvalidUsage)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCodeFromError(err))
}

func TestIntegration_StdinMixedWithPaths(t *testing.T) {
	t.Parallel()

	_, err := execute(t, nil, "format", "-", "site.css")
	require.ErrorIs(t, err, cli.ErrInvalidUsage)
}

func TestIntegration_Check(t *testing.T) {
	t.Parallel()

	dir := stylesheets(t)
	cfg := emptyConfig(t, "")

	out, err := execute(t, nil, "format", "--config", cfg, "--check", "--color", "never", dir)
	require.ErrorIs(t, err, cli.ErrUnformatted)

	assert.Contains(t, out, "a.css: would reformat\n")
	assert.NotContains(t, out, "b.css")
	assert.Contains(t, out, "1 file would be reformatted, 1 file already formatted\n")

	data, err := os.ReadFile(filepath.Join(dir, "a.css"))
	require.NoError(t, err)
	assert.Equal(t, minifiedCSS, string(data), "check must not write")
}

func TestIntegration_Verbose(t *testing.T) {
	t.Parallel()

	dir := stylesheets(t)
	cfg := emptyConfig(t, "")

	out, err := execute(t, nil, "format", "--config", cfg, "--verbose", "--color", "never", dir)
	require.NoError(t, err, "without --check pending changes are not a failure")
	assert.Contains(t, out, "b.css: unchanged\n")
}

func TestIntegration_Write(t *testing.T) {
	t.Parallel()

	t.Run("with backups", func(t *testing.T) {
		t.Parallel()

		dir := stylesheets(t)
		cfg := emptyConfig(t, "")

		out, err := execute(t, nil, "format", "--config", cfg, "-w", "--color", "never", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "a.css: formatted (backup created)\n")
		assert.Contains(t, out, "1 file reformatted, 1 file unchanged\n")

		data, err := os.ReadFile(filepath.Join(dir, "a.css"))
		require.NoError(t, err)
		assert.Equal(t, formattedCSS, string(data))

		backup, err := os.ReadFile(filepath.Join(dir, "a.css"+fsutil.DefaultBackupSuffix))
		require.NoError(t, err)
		assert.Equal(t, minifiedCSS, string(backup))

		// A second run finds nothing to do.
		out, err = execute(t, nil, "format", "--config", cfg, "--check", "--color", "never", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "All stylesheets formatted (2 files checked)\n")
	})

	t.Run("without backups", func(t *testing.T) {
		t.Parallel()

		dir := stylesheets(t)
		cfg := emptyConfig(t, "")

		_, err := execute(t, nil, "format", "--config", cfg, "-w", "--no-backups", dir)
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(dir, "a.css"+fsutil.DefaultBackupSuffix))
		assert.True(t, os.IsNotExist(err), "no backup expected, stat error = %v", err)
	})

	t.Run("backups disabled in config", func(t *testing.T) {
		t.Parallel()

		dir := stylesheets(t)
		cfg := emptyConfig(t, "backups:\n  enabled: false\n")

		_, err := execute(t, nil, "format", "--config", cfg, "-w", dir)
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(dir, "a.css"+fsutil.DefaultBackupSuffix))
		assert.True(t, os.IsNotExist(err), "no backup expected, stat error = %v", err)
	})
}

func TestIntegration_JSONOutput(t *testing.T) {
	t.Parallel()

	dir := stylesheets(t)
	cfg := emptyConfig(t, "")

	out, err := execute(t, nil, "format", "--config", cfg, "-o", "json", "--diff", dir)
	require.NoError(t, err)

	var report reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, 2, report.Summary.FilesChecked)
	assert.Equal(t, 1, report.Summary.FilesChanged)
	require.Len(t, report.Files, 2)
	assert.Equal(t, "changed", report.Files[0].Status)
	assert.Contains(t, report.Files[0].Diff, "+    color: red;")
	assert.Equal(t, "unchanged", report.Files[1].Status)
}

func TestIntegration_DiffOutput(t *testing.T) {
	t.Parallel()

	dir := stylesheets(t)
	cfg := emptyConfig(t, "")

	out, err := execute(t, nil, "format", "--config", cfg, "-o", "diff", "--color", "never", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "-a{color:red}\n")
	assert.Contains(t, out, "1 file changed, 3 insertions(+), 1 deletion(-)\n")
}

func TestIntegration_IgnoreAndExtensions(t *testing.T) {
	t.Parallel()

	dir := stylesheets(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vendor", "lib.css"), []byte(minifiedCSS), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "theme.pcss"), []byte(minifiedCSS), 0o644))
	cfg := emptyConfig(t, "")

	out, err := execute(t, nil, "format", "--config", cfg, "--color", "never",
		"--ignore", "vendor/**", dir)
	require.NoError(t, err)
	assert.NotContains(t, out, "lib.css")
	assert.NotContains(t, out, "theme.pcss")

	out, err = execute(t, nil, "format", "--config", cfg, "--color", "never",
		"--ignore", "vendor/**", "--ext", ".css,.pcss", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "theme.pcss: would reformat\n")
}

func TestIntegration_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   string
		args     []string
		wantCode int
	}{
		{
			name:     "missing path",
			args:     []string{"does-not-exist.css"},
			wantCode: cli.ExitIOError,
		},
		{
			name:     "invalid quote in config",
			config:   "format:\n  quote: backtick\n",
			args:     []string{"-"},
			wantCode: cli.ExitConfigError,
		},
		{
			name:     "malformed config",
			config:   "format: [unclosed\n",
			args:     []string{"-"},
			wantCode: cli.ExitConfigError,
		},
		{
			name:     "write and check",
			args:     []string{"--write", "--check", "."},
			wantCode: cli.ExitConfigError,
		},
		{
			name:     "unknown output format",
			args:     []string{"-o", "xml", "."},
			wantCode: cli.ExitInvalidUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := emptyConfig(t, tt.config)
			args := append([]string{"format", "--config", cfg}, tt.args...)

			_, err := execute(t, strings.NewReader(minifiedCSS), args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, cli.ExitCodeFromError(err), "error: %v", err)
			assert.False(t, cli.IsSilent(err))
		})
	}
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.yml")

	_, err := execute(t, nil, "init", "--output", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	_, err = execute(t, nil, "init", "--output", path)
	require.ErrorIs(t, err, cli.ErrInvalidUsage, "existing file needs --force")

	_, err = execute(t, nil, "init", "--output", path, "--full", "--force")
	require.NoError(t, err)

	// The generated file is a usable configuration.
	out, err := execute(t, strings.NewReader(minifiedCSS), "format", "--config", path, "-")
	require.NoError(t, err)
	assert.Equal(t, formattedCSS, out)
}
