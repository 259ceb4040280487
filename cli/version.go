package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/branchtools/sweep/version"
)

// SetVersionTemplate sets a custom version template for a cobra command
func SetVersionTemplate(cmd *cobra.Command, info version.Info) {
	cmd.SetVersionTemplate(fmt.Sprintf(`{{.Name}} {{.Version}}
  Commit:    %s
  Built:     %s
  Go:        %s
`, info.Commit, info.BuildDate, info.GoVersion))
}
