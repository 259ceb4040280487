package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/branchtools/sweep/cli"
	"github.com/branchtools/sweep/precommit"
	"github.com/branchtools/sweep/schema"
)

// NewValidateCmd creates the `validate` command
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a .pre-commit-config.yaml file",
		Long: `Loads the hook configuration and checks its structure: every repo needs
a non-empty source and (unless local) a pinned rev, every hook needs an id,
and all stage names must be recognized. With --schema the file is also
checked against the embedded JSON schema.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd)

			path, err := resolveHookConfig(args)
			if err != nil {
				return err
			}

			useSchema, _ := cmd.Flags().GetBool("schema")
			watch, _ := cmd.Flags().GetBool("watch")
			jsonOut, _ := cmd.Flags().GetBool("json")

			validate := func() error {
				cfg, err := precommit.Load(path)
				if err != nil {
					return err
				}
				if err := cfg.Validate(); err != nil {
					return err
				}
				if useSchema {
					validator, err := schema.NewValidator()
					if err != nil {
						return err
					}
					if err := validator.Validate(cfg); err != nil {
						return err
					}
				}
				return nil
			}

			report := func(err error) {
				if jsonOut {
					out := map[string]interface{}{"path": path, "valid": err == nil}
					if err != nil {
						out["error"] = err.Error()
					}
					data, _ := json.MarshalIndent(out, "", "  ")
					fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return
				}
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", path, err)
					return
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", path)
			}

			if !watch {
				err := validate()
				// Failures are rendered once, by the error handler at
				// the top of the tree
				if err == nil || jsonOut {
					report(err)
				}
				return err
			}

			// Watch mode: re-validate on every change until interrupted
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			// Watch the directory: editors replace files on save, which
			// drops a watch on the file itself
			if err := watcher.Add(filepath.Dir(path)); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}

			report(validate())
			logger.Infof("Watching %s for changes", path)

			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Clean(event.Name) != filepath.Clean(path) {
						continue
					}
					if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
						continue
					}
					report(validate())
				case watchErr, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					logger.WithError(watchErr).Warn("Watcher error")
				case <-cmd.Context().Done():
					return nil
				}
			}
		},
	}

	cmd.Flags().Bool("schema", false, "Also validate against the embedded JSON schema")
	cmd.Flags().Bool("watch", false, "Re-validate whenever the file changes")

	return cmd
}

// resolveHookConfig picks the config path from the argument or by searching
// upward from the working directory.
func resolveHookConfig(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return precommit.FindConfigFile(cwd)
}
