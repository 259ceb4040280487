package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/branchtools/sweep/cli"
	"github.com/branchtools/sweep/report"
)

// NewScanCmd creates the `scan` command
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [repository...]",
		Short: "Scan repositories and mark stale branches for deletion",
		Long: `Fetches every branch of the selected repositories, compares the last
commit date against the configured retention thresholds, and records the
branches that exceeded them. Nothing is deleted; run 'sweep purge' to act
on a previous scan.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd)

			cfg, err := loadSweepConfig(cmd)
			if err != nil {
				return err
			}

			s, err := newSweeper(cfg)
			if err != nil {
				return err
			}

			selected := args
			if len(selected) == 0 {
				selected = cfg.Repositories
			}
			repos, err := s.Repositories(cmd.Context(), selected)
			if err != nil {
				return err
			}

			writeHTML, _ := cmd.Flags().GetBool("html")
			progress := cli.NewProgressReporter()

			project := &report.ProjectSummary{
				Project:   cfg.Project,
				Action:    "marked for deletion",
				Generated: time.Now(),
			}
			project.Thresholds = thresholdRows(cfg.Thresholds)

			for _, repo := range repos {
				progress.Update(repo, "scanning")

				summary, err := s.Scan(cmd.Context(), repo)
				if err != nil {
					progress.Update(repo, "failed")
					logger.WithError(err).Errorf("Scan of %s failed", repo)
					return err
				}

				report.WriteTable(os.Stdout, summary)
				if err := report.WriteRepoLog(cfg.ReportDir(), cfg.Project, summary); err != nil {
					return err
				}
				project.Add(summary)
				progress.Update(repo, "done")
			}
			progress.Done()

			if writeHTML {
				if err := report.WriteHTML(cfg.ReportDir(), project); err != nil {
					return err
				}
				fmt.Printf("HTML report written to %s/index.html\n", cfg.ReportDir())
			}

			return nil
		},
	}

	cmd.Flags().Bool("html", false, "Write an HTML summary report")

	return cmd
}
