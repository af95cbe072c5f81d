package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/app"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/config"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/hcl_adapter"
)

// Process exit codes.
const (
	ExitFailure    = 1
	ExitUsage      = 2
	ExitOutOfDate  = 3
	defaultVersion = "0.0.1"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Message: err.Error(), Err: err}
}

// commandError maps an error returned by a workspace command to its exit
// code.
func commandError(err error) error {
	if err == nil {
		return nil
	}
	code := ExitFailure
	if errors.Is(err, app.ErrOutOfDate) {
		code = ExitOutOfDate
	}
	return &ExitError{Code: code, Message: err.Error(), Err: err}
}

// Execute runs the command line args. Every error it returns is an
// *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(outW)
	cmd.SetErr(errW)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Anything cobra rejects before a command runs is a usage problem.
	return usageError(err)
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	tsconfigPath  string
	concurrency   int
	logLevel      string
	logFormat     string
	configFile    string
	workspaceInfo string
	dryRun        bool
	failOnCycle   bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "tsmono",
		Short:         "Keep TypeScript project references in sync with yarn workspaces",
		Version:       defaultVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.tsconfigPath, "tsconfig-path", "p", "tsconfig.json", "Use alternative config path inside the package. eg: test/tsconfig.json")
	f.IntVar(&opts.concurrency, "concurrency", 4, "Maximum number of packages processed at once.")
	f.StringVar(&opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	f.StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	f.StringVar(&opts.configFile, "config", "", "Settings file (default <workspace-root>/tsmono.hcl when present).")
	f.StringVar(&opts.workspaceInfo, "workspace-info", "", "Read the workspace topology from this JSON or YAML file (relative to the workspace root) instead of running yarn.")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Report the packages that would change without writing anything.")
	f.BoolVar(&opts.failOnCycle, "fail-on-cycle", false, "Abort before writing when workspace dependencies form a cycle.")

	cmd.AddCommand(
		injectRefsCmd(opts),
		setCompilerOptionCmd(opts, "set-outDir", "outDir"),
		setCompilerOptionCmd(opts, "set-rootDir", "rootDir"),
		setExtendCmd(opts),
	)
	return cmd
}

// usageArgs wraps an argument validator so its failures map to ExitUsage.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// commandConfig resolves the layered configuration for a command run on the
// workspace at rootArg. Flags the user did not set do not override lower
// layers.
func (o *globalOptions) commandConfig(cmd *cobra.Command, rootArg string, local *config.Model) (*app.Config, error) {
	root, err := filepath.Abs(rootArg)
	if err != nil {
		return nil, usageError(fmt.Errorf("workspace root %q: %w", rootArg, err))
	}

	f := cmd.Flags()
	flags := config.Merge(local)
	if f.Changed("tsconfig-path") {
		flags.TSConfigPath = &o.tsconfigPath
	}
	if f.Changed("concurrency") {
		flags.Concurrency = &o.concurrency
	}
	if f.Changed("log-level") {
		flags.LogLevel = &o.logLevel
	}
	if f.Changed("log-format") {
		flags.LogFormat = &o.logFormat
	}
	if f.Changed("workspace-info") {
		flags.Topology = &config.Topology{File: &o.workspaceInfo}
	}

	m, err := app.LoadSettings(cmd.Context(), root, o.configFile, flags, hcl_adapter.NewLoader())
	if err != nil {
		return nil, usageError(err)
	}

	cfg := app.DefaultConfig(root)
	cfg.Apply(m)
	cfg.DryRun = o.dryRun
	cfg.FailOnCycle = o.failOnCycle

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	return validated, nil
}

func (o *globalOptions) newApp(cmd *cobra.Command, cfg *app.Config) *app.App {
	return app.NewApp(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, nil)
}
