package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/branchtools/sweep/precommit"
)

// NewSchemaCmd creates the `schema` command
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema for .pre-commit-config.yaml",
		Long: `Generates the JSON schema describing the hook configuration format.
Useful for editor integration (yaml-language-server) and CI validation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := precommit.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
