package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cssbeautify/internal/configloader"
	"github.com/yaklabco/cssbeautify/internal/logging"
	"github.com/yaklabco/cssbeautify/pkg/config"
	"github.com/yaklabco/cssbeautify/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new cssbeautify configuration file",
		Long: `Create a new .cssbeautify.yml configuration file in the current directory.
The minimal template lists every option commented out; the full template sets
each one to its default with a description.

Examples:
  cssbeautify init                      Create minimal .cssbeautify.yml
  cssbeautify init --full               Create full config with every option set
  cssbeautify init --output custom.yml  Write to a custom file path`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runInit(ctx, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with every option documented")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output file path (default: "+configloader.ProjectConfigName+")")

	return cmd
}

func runInit(ctx context.Context, flags *initFlags) error {
	logger := logging.NewInteractive()

	outputPath := flags.output
	if outputPath == "" {
		outputPath = configloader.ProjectConfigName
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrInvalidUsage, outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content := config.GenerateTemplate(config.TemplateOptions{Full: flags.full})

	if err := fsutil.WriteAtomic(ctx, absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)

	if flags.full {
		logger.Info("full template sets every option to its default")
	}

	logger.Info("customize your configuration by editing the file")
	logger.Info("run 'cssbeautify format --diff' to preview the result")

	return nil
}
