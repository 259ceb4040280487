package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/branchtools/sweep/precommit"
)

// NewInitCmd creates the `init` command
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a starter .pre-commit-config.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			} else if cwd, err := os.Getwd(); err == nil {
				dir = cwd
			}

			path, err := precommit.Init(dir)
			if err != nil {
				return err
			}
			fmt.Printf("Created %s\n", path)
			return nil
		},
	}
}
