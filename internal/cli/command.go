package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idelchi/mediascan/internal/config"
	"github.com/idelchi/mediascan/internal/mediascan"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"plain", "table", "json"}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command().Execute()
}

// Command builds the root command.
//
//nolint:funlen // Flag declarations
func (c CLI) Command() *cobra.Command {
	var (
		options    mediascan.Options
		extensions string
	)

	cmd := &cobra.Command{
		Use:   "mediascan [flags] [path]",
		Short: "Find media files by extension, count them and optionally copy them",
		Long: heredoc.Doc(`
			mediascan walks a directory tree and reports, per media extension,
			how many files were found and their aggregate size.

			With --target-directory every match is copied to
			<target>/<extension>/<file name>, replacing existing files of the same name.
			Without it, files are only classified.

			The start directory may be given with --start-directory or as the single
			positional argument, but not both. The positional form overrides a
			start_directory set in the configuration file.

			Extensions are matched case-sensitively against the part of the file name
			after its last dot, so "a.tar.gz" is classified as "gz". The list given to
			--media-extensions is split on commas as-is: do not put spaces after them.

			Defaults for most flags may be set in a TOML or YAML configuration file,
			by default $XDG_CONFIG_HOME/mediascan/config.toml.
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Version {
				//nolint:forbidigo // Version output to console
				fmt.Fprintln(cmd.OutOrStdout(), c.version)

				return nil
			}

			setupLogging(cmd.ErrOrStderr(), options.Debug)

			cfg, err := config.Load(options.Config)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			applyConfig(cmd.Flags(), cfg, &options, &extensions)

			if len(args) > 0 {
				if cmd.Flags().Changed("start-directory") {
					return fmt.Errorf("start directory given twice: %q and --start-directory %q", args[0], options.Path)
				}

				options.Path = args[0]
			}

			if !slices.Contains(allowedOutputs, options.Output) {
				return fmt.Errorf("invalid output format %q: must be one of %v", options.Output, allowedOutputs)
			}

			options.Extensions = mediascan.ParseExtensions(extensions)

			slog.Debug("starting scan",
				"path", options.Path,
				"target", options.Target,
				"extensions", options.Extensions,
				"excludes", options.Excludes,
			)

			return logic(cmd, options)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.StringVarP(&options.Path, "start-directory", "s", mediascan.DefaultPath, "Directory to scan")
	flags.StringVarP(&options.Target, "target-directory", "t", "",
		"Directory to copy matches into, one subfolder per extension (default: do not copy)")
	flags.StringVarP(&extensions, "media-extensions", "m", mediascan.DefaultExtensions,
		"Comma-separated media extensions, without leading dots")
	flags.StringSliceVarP(&options.Excludes, "exclude", "e", nil,
		"Glob patterns of paths to skip, relative to the start directory (e.g. '**/.git')")
	flags.BoolVar(&options.Verify, "verify", false, "Verify each copy against its source")
	flags.StringVarP(&options.Output, "output", "o", "plain", "Summary format: plain, table or json")
	flags.BoolVarP(&options.Progress, "progress", "p", false,
		"Show a progress bar instead of per-file lines (terminal only)")
	flags.StringVarP(&options.Config, "config", "c", "", "Path to a configuration file")
	flags.BoolVar(&options.Debug, "debug", false, "Enable debug output")
	flags.BoolVarP(&options.Version, "version", "v", false, "Show version and exit")

	return cmd
}

// applyConfig copies file values into options for flags not set on the command line.
func applyConfig(flags *pflag.FlagSet, cfg config.FileConfig, options *mediascan.Options, extensions *string) {
	if !flags.Changed("start-directory") && cfg.StartDirectory != nil {
		options.Path = *cfg.StartDirectory
	}

	if !flags.Changed("target-directory") && cfg.TargetDirectory != nil {
		options.Target = *cfg.TargetDirectory
	}

	if !flags.Changed("media-extensions") && cfg.MediaExtensions != nil {
		*extensions = *cfg.MediaExtensions
	}

	if !flags.Changed("exclude") && cfg.Exclude != nil {
		options.Excludes = cfg.Exclude
	}

	if !flags.Changed("verify") && cfg.Verify != nil {
		options.Verify = *cfg.Verify
	}

	if !flags.Changed("output") && cfg.Output != nil {
		options.Output = *cfg.Output
	}

	if !flags.Changed("progress") && cfg.Progress != nil {
		options.Progress = *cfg.Progress
	}
}

// setupLogging installs the default slog logger on w.
func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
