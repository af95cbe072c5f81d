package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/config"
)

func injectRefsCmd(opts *globalOptions) *cobra.Command {
	var generateBuildAll, check bool

	c := &cobra.Command{
		Use:   "inject-refs <yarn-project-root>",
		Short: "Inject the appropriate tsconfig references based on yarn workspaces dependency graph",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			local := &config.Model{}
			if cmd.Flags().Changed("generate-build-all") {
				local.GenerateBuildAll = &generateBuildAll
			}
			cfg, err := opts.commandConfig(cmd, args[0], local)
			if err != nil {
				return err
			}
			cfg.Check = check
			return commandError(opts.newApp(cmd, cfg).InjectRefs(cmd.Context()))
		},
	}

	c.Flags().BoolVarP(&generateBuildAll, "generate-build-all", "a", false, "Generate top level build-all-tsconfig.json with references to the leaf packages")
	c.Flags().BoolVar(&check, "check", false, "Exit with code 3 when any package configuration is out of date; nothing is written.")
	return c
}

func setCompilerOptionCmd(opts *globalOptions, use, option string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <yarn-project-root> [new" + upperFirst(option) + "]",
		Short: "Set the compilerOptions." + option + " in all of the packages. omit new value to delete",
		Args:  usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.commandConfig(cmd, args[0], nil)
			if err != nil {
				return err
			}
			return commandError(opts.newApp(cmd, cfg).SetCompilerOption(cmd.Context(), option, optionalArg(args, 1)))
		},
	}
}

func setExtendCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-extend <yarn-project-root> [target]",
		Short: "Point extends in all of the packages at target (absolute or relative to the project root). omit target to delete",
		Args:  usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.commandConfig(cmd, args[0], nil)
			if err != nil {
				return err
			}
			return commandError(opts.newApp(cmd, cfg).SetExtends(cmd.Context(), optionalArg(args, 1)))
		},
	}
}

func optionalArg(args []string, i int) *string {
	if i >= len(args) {
		return nil
	}
	return &args[i]
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
