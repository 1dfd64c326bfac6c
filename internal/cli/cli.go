package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/mlgridgo/internal/app"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// options collects every flag of the command tree.
type options struct {
	logLevel        string
	logFormat       string
	workers         int
	healthcheckPort int
	noColor         bool

	configPaths []string
	dataPath    string
	graphOut    string
	modules     []string
}

// appConfig validates the flags and turns them into an app.Config.
func (o *options) appConfig(overrides []string) (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		ConfigPaths:     o.configPaths,
		Overrides:       overrides,
		DataPath:        o.dataPath,
		GraphOut:        o.graphOut,
		Modules:         o.modules,
		LogFormat:       strings.ToLower(o.logFormat),
		LogLevel:        strings.ToLower(o.logLevel),
		HealthcheckPort: o.healthcheckPort,
		WorkerCount:     o.workers,
		NoColor:         o.noColor,
	})
	if err != nil {
		return nil, usageError("%s", err.Error())
	}
	return cfg, nil
}

// overrideArgs accepts positional path=value overrides only.
func overrideArgs(cmd *cobra.Command, args []string) error {
	for _, a := range args {
		if k, _, ok := strings.Cut(a, "="); !ok || k == "" {
			return usageError("invalid override %q: want path=value", a)
		}
	}
	return nil
}

// NewRootCommand builds the mlgridgo command tree. Reports and help go to
// out; logs of the configs and graph commands go to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "mlgridgo",
		Short: "Configuration-driven ML pipeline runner",
		Long: `mlgridgo assembles a dataflow from the compiled pipeline modules,
keeping only the functions whose conditions match the run configuration,
and executes it on a worker pool.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError("%s", err.Error())
	})

	pf := root.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.IntVar(&opts.workers, "workers", 4, "Number of concurrent workers for the executor.")
	pf.IntVar(&opts.healthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	pf.BoolVar(&opts.noColor, "no-color", false, "Disable colored output.")

	root.AddCommand(
		newRunCommand(opts),
		newGraphCommand(opts),
		newConfigsCommand(opts),
	)
	return root
}

func addRunConfigFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringSliceVarP(&opts.configPaths, "config", "c", nil, "Run configuration file or directory (.hcl, .yaml). Repeatable.")
	cmd.Flags().StringVar(&opts.dataPath, "data-path", "", "Path to the CSV dataset. Overrides data.path.")
}

func newRunCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [path=value ...]",
		Short: "Train or score a model with the configured pipeline",
		Example: `  mlgridgo run --config conf/config.hcl
  mlgridgo run mode=inference model.model_type=v2`,
		Args: overrideArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.appConfig(args)
			if err != nil {
				return err
			}
			_, err = app.NewApp(cmd.OutOrStdout(), cfg).Run(cmd.Context())
			return err
		},
	}
	addRunConfigFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.graphOut, "graph-out", "", "Write the dataflow graph in DOT format to this file before executing.")
	return cmd
}

func newGraphCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [path=value ...]",
		Short: "Print the dataflow of the configured run in DOT format",
		Args:  overrideArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.appConfig(args)
			if err != nil {
				return err
			}
			return app.NewApp(cmd.ErrOrStderr(), cfg).Graph(cmd.Context(), cmd.OutOrStdout())
		},
	}
	addRunConfigFlags(cmd, opts)
	return cmd
}

func newConfigsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configs",
		Short: "List the configuration keys and values the modules are conditioned on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.appConfig(nil)
			if err != nil {
				return err
			}
			return app.NewApp(cmd.ErrOrStderr(), cfg).Configs(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringSliceVarP(&opts.modules, "module", "m", nil, "Module to scan. Repeatable; all modules when omitted.")
	return cmd
}

// Execute runs the command tree against args. Every error it returns is an
// *ExitError: code 2 for usage errors, 1 for everything else.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := NewRootCommand(out, errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		return usageError("%s", err.Error())
	}
	return &ExitError{Code: 1, Message: err.Error()}
}
