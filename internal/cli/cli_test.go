package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/yaklabco/cssbeautify/internal/cli"
	"github.com/yaklabco/cssbeautify/internal/configloader"
	"github.com/yaklabco/cssbeautify/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}

	if cmd.Use != "cssbeautify" {
		t.Errorf("expected Use to be 'cssbeautify', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"format", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected subcommand %q to exist, got error: %v", name, err)
			continue
		}

		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}

	if sub, _, err := cmd.Find([]string{"fmt"}); err != nil || sub.Name() != "format" {
		t.Errorf("fmt alias resolved to %v, %v", sub, err)
	}
}

func TestFormatCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	formatCmd, _, err := cmd.Find([]string{"format"})
	if err != nil {
		t.Fatalf("format command not found: %v", err)
	}

	expectedFlags := []string{
		"write",
		"check",
		"diff",
		"output",
		"jobs",
		"ignore",
		"ext",
		"no-backups",
		"no-verify",
		"verbose",
		"indent",
		"quote",
		"no-shorten-hex",
		"no-lowercase-hex",
		"keep-leading-zero",
		"keep-zero-units",
		"no-last-semicolon",
	}

	for _, flagName := range expectedFlags {
		if formatCmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag %q to exist on format command", flagName)
		}
	}

	if f := formatCmd.Flags().ShorthandLookup("w"); f == nil || f.Name != "write" {
		t.Errorf("-w should be shorthand for --write, got %v", f)
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, flagName := range []string{"debug", "config", "color"} {
		if cmd.PersistentFlags().Lookup(flagName) == nil {
			t.Errorf("expected global flag %q to exist", flagName)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2024-01-01",
	}

	t.Run("full", func(t *testing.T) {
		t.Parallel()

		cmd := cli.NewRootCommand(info)
		cmd.SetArgs([]string{"version"})

		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)

		if err := cmd.Execute(); err != nil {
			t.Fatalf("version command failed: %v", err)
		}

		for _, want := range []string{"cssbeautify", "1.2.3", "abc123", "2024-01-01"} {
			if !bytes.Contains(out.Bytes(), []byte(want)) {
				t.Errorf("output %q does not contain %q", out.String(), want)
			}
		}
	})

	t.Run("short", func(t *testing.T) {
		t.Parallel()

		cmd := cli.NewRootCommand(info)
		cmd.SetArgs([]string{"version", "--short"})

		var out bytes.Buffer
		cmd.SetOut(&out)

		if err := cmd.Execute(); err != nil {
			t.Fatalf("version command failed: %v", err)
		}
		if out.String() != "1.2.3\n" {
			t.Errorf("output = %q, want %q", out.String(), "1.2.3\n")
		}
	})
}

func TestFormatCommandAcceptsArbitraryArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	formatCmd, _, err := cmd.Find([]string{"format"})
	if err != nil {
		t.Fatalf("format command not found: %v", err)
	}

	err = formatCmd.Args(formatCmd, []string{"site.css", "theme.css", "styles/"})
	if err != nil {
		t.Errorf("format command should accept arbitrary args, got error: %v", err)
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *runner.Result
		check  bool
		want   int
	}{
		{name: "nil result", want: cli.ExitSuccess},
		{name: "clean", result: &runner.Result{}, check: true, want: cli.ExitSuccess},
		{
			name:   "changes without check",
			result: &runner.Result{Stats: runner.Stats{FilesChanged: 2}},
			want:   cli.ExitSuccess,
		},
		{
			name:   "changes with check",
			result: &runner.Result{Stats: runner.Stats{FilesChanged: 2}},
			check:  true,
			want:   cli.ExitUnformatted,
		},
		{
			name:   "skipped files win over changes",
			result: &runner.Result{Stats: runner.Stats{FilesChanged: 1, FilesSkipped: 1}},
			check:  true,
			want:   cli.ExitFileFailures,
		},
		{
			name:   "errored files",
			result: &runner.Result{Stats: runner.Stats{FilesErrored: 1}},
			want:   cli.ExitFileFailures,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := cli.ExitCodeFromResult(tt.result, tt.check); got != tt.want {
				t.Errorf("ExitCodeFromResult() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitCodeFromError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", want: cli.ExitSuccess},
		{name: "unformatted", err: cli.ErrUnformatted, want: cli.ExitUnformatted},
		{name: "file failures", err: cli.ErrFileFailures, want: cli.ExitFileFailures},
		{name: "usage", err: fmt.Errorf("%w: bad flags", cli.ErrInvalidUsage), want: cli.ExitInvalidUsage},
		{
			name: "validation",
			err:  errors.Join(errors.New("failed to load configuration"), &configloader.ValidationError{Field: "jobs"}),
			want: cli.ExitConfigError,
		},
		{name: "config load", err: fmt.Errorf("%w: parse", configloader.ErrConfigLoad), want: cli.ExitConfigError},
		{name: "missing path", err: fmt.Errorf("stat x.css: %w", fs.ErrNotExist), want: cli.ExitIOError},
		{name: "other", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := cli.ExitCodeFromError(tt.err); got != tt.want {
				t.Errorf("ExitCodeFromError() = %d, want %d", got, tt.want)
			}
		})
	}

	if !cli.IsSilent(cli.ErrUnformatted) || cli.IsSilent(errors.New("boom")) {
		t.Error("IsSilent misclassifies errors")
	}
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"format", "--help", "--color", "never"})

	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}

	for _, want := range []string{"Usage:", "Flags:", "Global Flags:", "-w, --write", "--no-verify", "Aliases:"} {
		if !bytes.Contains(out.Bytes(), []byte(want)) {
			t.Errorf("help output does not contain %q:\n%s", want, out.String())
		}
	}
}
