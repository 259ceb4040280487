package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/branchtools/sweep/cli"
	"github.com/branchtools/sweep/errors"
	"github.com/branchtools/sweep/git"
	"github.com/branchtools/sweep/precommit"
	"github.com/branchtools/sweep/runner"
)

// NewHooksCmd creates the `hooks` command group
func NewHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Install, remove, and run configured git hooks",
	}

	cmd.AddCommand(newHooksInstallCmd())
	cmd.AddCommand(newHooksUninstallCmd())
	cmd.AddCommand(newHooksRunCmd())

	return cmd
}

func newHooksInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install git hook scripts for every configured stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd)

			root, cfg, err := hookContext()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			manager := git.NewHookManager(binaryName())
			if err := manager.InstallHooks(cmd.Context(), root, cfg); err != nil {
				return err
			}

			logger.Info("Git hooks installed")
			fmt.Println("Hooks installed. They will run the stages configured in .pre-commit-config.yaml.")
			return nil
		},
	}
}

func newHooksUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove managed git hook scripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			root, err := git.GetGitRoot(cwd)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeNotARepo, "not inside a git repository")
			}

			manager := git.NewHookManager(binaryName())
			if err := manager.UninstallHooks(cmd.Context(), root); err != nil {
				return err
			}

			fmt.Println("Hooks removed.")
			return nil
		},
	}
}

func newHooksRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <stage> [-- hook-args...]",
		Short: "Run the hooks configured for a lifecycle stage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := hookContext()
			if err != nil {
				return err
			}

			stage := args[0]
			extraArgs := args[1:]

			r := runner.New(cfg, root)
			results, runErr := r.Run(cmd.Context(), stage, extraArgs)

			for _, res := range results {
				switch {
				case res.Skipped:
					fmt.Printf("- %s (skipped, no matching files)\n", res.HookID)
				case res.Passed:
					fmt.Printf("✓ %s (%s)\n", res.HookID, res.Duration.Round(timeResolution))
				default:
					fmt.Printf("✗ %s (%s)\n", res.HookID, res.Duration.Round(timeResolution))
					if res.Output != "" {
						fmt.Print(res.Output)
					}
				}
			}

			return runErr
		},
	}
}

// hookContext locates the git root and loads the hook configuration from it
func hookContext() (string, *precommit.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", nil, err
	}

	root, err := git.GetGitRoot(cwd)
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrCodeNotARepo, "not inside a git repository")
	}

	cfg, _, err := precommit.LoadDir(root)
	if err != nil {
		return "", nil, err
	}
	return root, cfg, nil
}

// binaryName is what the generated hook scripts invoke
func binaryName() string {
	if exe, err := os.Executable(); err == nil {
		return exe
	}
	return "sweep"
}
