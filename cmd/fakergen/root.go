package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sdboyer/fakerjen/faker"
	"github.com/sdboyer/fakerjen/internal/config"
	"github.com/sdboyer/fakerjen/internal/logger"
)

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"recursive":    "recursive",
	"pattern":      "pattern",
	"ext":          "ext",
	"line-endings": "line_endings",
	"workers":      "workers",
	"json":         "log.json",
	"verbose":      "log.verbose",
}

// argKeys are the config keys filled by positional arguments, in order.
var argKeys = []string{"input_dir", "namespace", "output_dir"}

const usage = "Usage: fakergen <path_to_model_directory> <output_namespace> <output_path> [-r]"

func newRootCmd() *cobra.Command {
	v := config.New()
	var configFile string

	root := &cobra.Command{
		Use:   "fakergen <path_to_model_directory> <output_namespace> <output_path> [-r]",
		Short: "Generate Bogus fakers from C# model classes",
		Long: `Generate a seeded Bogus faker for every C# model file in a directory.

For each model file, the first class declared in it is read and a static
<Model>Faker class is written to the output directory. Properties of
primitive types are faked in Primitive(), everything else in Extended(),
along with a With<Property> setter for each non-primitive property.

Files that cannot be processed are reported and receive a placeholder
comment instead of code.

Examples:
  fakergen src/Models Shop.Tests.Fakers tests/Fakers
  fakergen src/Models Shop.Tests.Fakers tests/Fakers -r
  fakergen check src/Models Shop.Tests.Fakers tests/Fakers -r`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Failures are reported on the console only; the exit status is
		// always zero.
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) > len(argKeys) {
				fmt.Fprintln(out, usage)
				return nil
			}
			cfg, err := loadConfig(v, configFile, args)
			if err != nil {
				printError(out, err)
				return nil
			}
			log := newLogger(cmd, cfg)
			defer func() { _ = log.Sync() }()

			if _, err := generate(cmd.Context(), cfg, log, out); err != nil {
				log.Debug("generation aborted", zap.Error(err))
				printError(out, err)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (toml, yaml or json)")
	flags.BoolP("recursive", "r", false, "also scan subdirectories of the model directory")
	flags.String("pattern", "*.cs", "file name pattern of model files")
	flags.String("ext", faker.DefaultExt, "extension of generated files")
	flags.String("line-endings", "lf", "line endings of generated files (lf or crlf)")
	flags.Int("workers", 1, "number of model files generated concurrently")
	flags.Bool("json", false, "write logs as JSON")
	flags.BoolP("verbose", "v", false, "write debug logs")
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(newCheckCmd(v, &configFile))
	return root
}

func newCheckCmd(v *viper.Viper, configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check <path_to_model_directory> <output_namespace> <output_path> [-r]",
		Short: "Check that generated fakers are up to date",
		Long: `Generate fakers in memory and compare them with the files in the output
directory. Nothing is written.

Exit codes:
  0 - Fakers are up to date
  1 - Fakers are missing or out of date (diff shown), or the check failed`,
		Args:          cobra.MaximumNArgs(len(argKeys)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, *configFile, args)
			if err != nil {
				return err
			}
			log := newLogger(cmd, cfg)
			defer func() { _ = log.Sync() }()

			return check(cmd.Context(), cfg, log, cmd.OutOrStdout())
		},
	}
}

// loadConfig applies positional arguments over flags, environment and config
// file.
func loadConfig(v *viper.Viper, file string, args []string) (*config.Config, error) {
	for i, arg := range args {
		v.Set(argKeys[i], arg)
	}
	return config.Load(v, file)
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *zap.Logger {
	return logger.New(logger.Options{
		JSON:    cfg.Log.JSON,
		Verbose: cfg.Log.Verbose,
		Output:  cmd.ErrOrStderr(),
	})
}

// printError reports err and any hints attached to it.
func printError(out io.Writer, err error) {
	fmt.Fprintln(out, pterm.Error.Sprint(err))
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintln(out, hint)
	}
}
