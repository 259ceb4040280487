package main

import (
	"os"

	"github.com/branchtools/sweep/cli"
	"github.com/branchtools/sweep/cmd"
	"github.com/branchtools/sweep/version"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"sweep",
		"Hook configuration tooling and stale-branch sweeping for Bitbucket projects",
	)
	rootCmd.Version = version.Version
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	cli.SetVersionTemplate(rootCmd, version.GetInfo())

	// Add subcommands
	rootCmd.AddCommand(cmd.NewValidateCmd())
	rootCmd.AddCommand(cmd.NewSchemaCmd())
	rootCmd.AddCommand(cmd.NewInitCmd())
	rootCmd.AddCommand(cmd.NewHooksCmd())
	rootCmd.AddCommand(cmd.NewScanCmd())
	rootCmd.AddCommand(cmd.NewPurgeCmd())
	rootCmd.AddCommand(cmd.NewReportCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		cli.NewErrorHandler(verbose).Handle(err) //nolint:errcheck
		os.Exit(1)
	}
}
