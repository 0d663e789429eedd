package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/cssbeautify/internal/configloader"
	"github.com/yaklabco/cssbeautify/internal/logging"
	"github.com/yaklabco/cssbeautify/pkg/config"
	"github.com/yaklabco/cssbeautify/pkg/format"
	"github.com/yaklabco/cssbeautify/pkg/reporter"
	"github.com/yaklabco/cssbeautify/pkg/runner"
)

// stdinPath names standard input in results and diffs.
const stdinPath = "-"

type formatFlags struct {
	output  string
	ignore  []string
	exts    []string
	verbose bool
	compact bool

	indent          string
	quote           string
	noShortenHex    bool
	noLowercaseHex  bool
	keepLeadingZero bool
	keepZeroUnits   bool
	noLastSemicolon bool
}

func newFormatCommand() *cobra.Command {
	var cfg config.Config
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:     "format [paths...]",
		Aliases: []string{"fmt"},
		Short:   "Beautify CSS files",
		Long:    formatLongDescription,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, &cfg, flags)
		},
	}

	addFormatFlags(cmd, &cfg, flags)

	return cmd
}

const formatLongDescription = `Beautify CSS stylesheets.

By default, checks all .css files in the current directory and its
subdirectories and lists the ones that would be reformatted. Use --write to
rewrite them in place. When no paths are given and standard input is a pipe,
or the only path is "-", the formatted stylesheet is written to standard
output instead.

Examples:
  cssbeautify format                     # Report files that would change
  cssbeautify format -w styles/          # Rewrite files under styles/
  cssbeautify format --check             # Exit 1 if anything needs formatting
  cssbeautify format --diff site.css     # Show what would change
  cssbeautify format --indent 2 -w .     # Two-space indentation
  cat min.css | cssbeautify format       # Format stdin to stdout`

func runFormat(cmd *cobra.Command, args []string, cfg *config.Config, flags *formatFlags) error {
	logger := logging.Default()

	if err := applyFormatFlags(cmd, cfg, flags); err != nil {
		return err
	}

	fromStdin := useStdin(cmd.InOrStdin(), args)
	if fromStdin && cfg.Write {
		return fmt.Errorf("%w: --write cannot be used with standard input", ErrInvalidUsage)
	}
	if !fromStdin && containsStdin(args) {
		return fmt.Errorf("%w: %q cannot be mixed with other paths", ErrInvalidUsage, stdinPath)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	// Get the explicit config path from the root command's persistent flag.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cfg,
	})
	if err != nil {
		return errors.Join(errors.New("failed to load configuration"), err)
	}

	finalCfg := loadResult.Config

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldConfig, loadResult.LoadedFrom)
	}

	logger.Debug("configuration loaded",
		logging.FieldWrite, finalCfg.Write,
		logging.FieldCheck, finalCfg.Check,
		logging.FieldVerify, finalCfg.VerifyEnabled(),
		logging.FieldJobs, finalCfg.Jobs,
	)

	opts, err := format.OptionsFromConfig(finalCfg)
	if err != nil {
		return fmt.Errorf("resolve settings: %w", err)
	}

	if fromStdin {
		return formatStdin(ctx, cmd, finalCfg, opts)
	}

	runOpts := runner.OptionsFromConfig(finalCfg, args, workDir)

	logger.Debug("starting format run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(opts).Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("format run failed"), err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      outputFormat(finalCfg),
		Color:       colorMode,
		Write:       finalCfg.Write,
		Verbose:     flags.verbose,
		ShowSummary: true,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	return errorForExitCode(ExitCodeFromResult(result, finalCfg.Check))
}

// formatStdin formats standard input to standard output. A stylesheet that
// fails verification is echoed unchanged.
func formatStdin(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts format.Options) error {
	input, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read standard input: %w", err)
	}

	res, err := format.ProcessContent(ctx, stdinPath, input, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	switch {
	case res.Skipped:
		if !cfg.Check {
			if _, err := out.Write(res.Original); err != nil {
				return fmt.Errorf("write standard output: %w", err)
			}
		}
		return ErrFileFailures
	case cfg.Check:
		if res.Changed {
			return ErrUnformatted
		}
		return nil
	case outputFormat(cfg) == config.FormatDiff:
		_, err = io.WriteString(out, res.Diff.String())
	default:
		_, err = out.Write(res.Formatted)
	}
	if err != nil {
		return fmt.Errorf("write standard output: %w", err)
	}
	return nil
}

// outputFormat resolves the report format; --diff selects the diff
// reporter unless another format was asked for.
func outputFormat(cfg *config.Config) config.OutputFormat {
	if cfg.Diff && (cfg.Output == "" || cfg.Output == config.FormatText) {
		return config.FormatDiff
	}
	return cfg.Output
}

// useStdin reports whether input should be formatted instead of files: when
// the only path is "-", or when no paths are given and in is a pipe or a
// redirected file.
func useStdin(in io.Reader, args []string) bool {
	if len(args) == 1 && args[0] == stdinPath {
		return true
	}
	if len(args) > 0 {
		return false
	}

	f, ok := in.(*os.File)
	if !ok {
		return in != nil
	}
	if term.IsTerminal(int(f.Fd())) {
		return false
	}

	// Character devices such as /dev/null are what CI jobs usually attach;
	// those still mean "format the working directory".
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}

func containsStdin(args []string) bool {
	for _, arg := range args {
		if arg == stdinPath {
			return true
		}
	}
	return false
}

// applyFormatFlags maps string and negated flags onto cfg. Only flags that
// were given are set so lower-precedence configuration still applies.
func applyFormatFlags(cmd *cobra.Command, cfg *config.Config, flags *formatFlags) error {
	changed := cmd.Flags().Changed

	if changed("output") {
		cfg.Output = config.OutputFormat(flags.output)
		if !cfg.Output.IsValid() {
			return fmt.Errorf("%w: unknown output format %q (want text, json or diff)", ErrInvalidUsage, flags.output)
		}
	}
	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if changed("ext") {
		cfg.Extensions = flags.exts
	}

	if changed("indent") {
		cfg.Format.Indent = &flags.indent
	}
	if changed("quote") {
		cfg.Format.Quote = &flags.quote
	}

	negations := []struct {
		name string
		dst  **bool
	}{
		{"no-shorten-hex", &cfg.Format.ShortenHex},
		{"no-lowercase-hex", &cfg.Format.LowercaseHex},
		{"keep-leading-zero", &cfg.Format.RemoveLeadingZero},
		{"keep-zero-units", &cfg.Format.RemoveZeroUnits},
		{"no-last-semicolon", &cfg.Format.AddLastSemicolon},
	}
	for _, n := range negations {
		set, err := cmd.Flags().GetBool(n.name)
		if err != nil {
			return fmt.Errorf("get %s flag: %w", n.name, err)
		}
		if set {
			off := false
			*n.dst = &off
		}
	}

	return nil
}

func addFormatFlags(cmd *cobra.Command, cfg *config.Config, flags *formatFlags) {
	cmd.Flags().BoolVarP(&cfg.Write, "write", "w", false, "rewrite files in place")
	cmd.Flags().BoolVar(&cfg.Check, "check", false, "exit with status 1 if any file needs formatting")
	cmd.Flags().BoolVar(&cfg.Diff, "diff", false, "show a unified diff of the changes")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "text", "report format: text, json, diff")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.exts, "ext", nil, "file extensions to format (default .css)")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when writing")
	cmd.Flags().BoolVar(&cfg.NoVerify, "no-verify", false, "skip the content-preservation check")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list unchanged files too")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "do not indent JSON output")

	// Formatting settings.
	cmd.Flags().StringVar(&flags.indent, "indent", "", `indentation: a number of spaces, "tab", or a literal string`)
	cmd.Flags().StringVar(&flags.quote, "quote", "", "string quotes: double, single, preserve")
	cmd.Flags().BoolVar(&flags.noShortenHex, "no-shorten-hex", false, "keep 6-digit hex colors")
	cmd.Flags().BoolVar(&flags.noLowercaseHex, "no-lowercase-hex", false, "keep the case of hex colors")
	cmd.Flags().BoolVar(&flags.keepLeadingZero, "keep-leading-zero", false, "keep the 0 in 0.5")
	cmd.Flags().BoolVar(&flags.keepZeroUnits, "keep-zero-units", false, "keep units on zero lengths")
	cmd.Flags().BoolVar(&flags.noLastSemicolon, "no-last-semicolon", false,
		"do not add a semicolon after the last declaration")
}
