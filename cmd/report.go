package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/branchtools/sweep/report"
	"github.com/branchtools/sweep/sweeper"
)

// NewReportCmd creates the `report` command
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the recorded scan results",
		Long: `Prints the dispositions recorded by the last scan without contacting
the server, and optionally regenerates the HTML summary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSweepConfig(cmd)
			if err != nil {
				return err
			}

			state, err := sweeper.NewStore(cfg.StatePath()).Load()
			if err != nil {
				return err
			}
			if len(state) == 0 {
				fmt.Println("No scan results recorded. Run 'sweep scan' first.")
				return nil
			}

			repos := make([]string, 0, len(state))
			for repo := range state {
				repos = append(repos, repo)
			}
			sort.Strings(repos)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				data, err := json.MarshalIndent(state, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			project := &report.ProjectSummary{
				Project:    cfg.Project,
				Action:     "marked for deletion",
				Generated:  time.Now(),
				Thresholds: thresholdRows(cfg.Thresholds),
			}

			for _, repo := range repos {
				summary := &sweeper.Summary{Repository: repo, Records: state[repo]}
				report.WriteTable(os.Stdout, summary)
				project.Add(summary)
			}

			writeHTML, _ := cmd.Flags().GetBool("html")
			if writeHTML {
				if err := report.WriteHTML(cfg.ReportDir(), project); err != nil {
					return err
				}
				fmt.Printf("HTML report written to %s/index.html\n", cfg.ReportDir())
			}

			return nil
		},
	}

	cmd.Flags().Bool("html", false, "Regenerate the HTML summary report")

	return cmd
}
