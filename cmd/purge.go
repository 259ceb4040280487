package cmd

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/branchtools/sweep/cli"
	"github.com/branchtools/sweep/report"
	"github.com/branchtools/sweep/sweeper"
)

// NewPurgeCmd creates the `purge` command
func NewPurgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge [repository...]",
		Short: "Delete branches marked by a previous scan",
		Long: `Re-checks every branch recorded by 'sweep scan' and deletes the ones
that are still stale. Branches that received new commits since the scan are
retained, as are branches whose tips moved. Branch restrictions are removed
before deletion. The scan state is consumed by the purge.`,
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

			repos := args
			if len(repos) == 0 {
				// Purge whatever the last scan recorded
				state, err := sweeper.NewStore(cfg.StatePath()).Load()
				if err != nil {
					return err
				}
				for repo := range state {
					repos = append(repos, repo)
				}
				sort.Strings(repos)
			}
			if len(repos) == 0 {
				fmt.Println("No scan results to purge. Run 'sweep scan' first.")
				return nil
			}

			project := &report.ProjectSummary{
				Project:    cfg.Project,
				Action:     "deleted",
				Generated:  time.Now(),
				Thresholds: thresholdRows(cfg.Thresholds),
			}

			for _, repo := range repos {
				summary, err := s.Purge(cmd.Context(), repo)
				if err != nil {
					logger.WithError(err).Errorf("Purge of %s failed", repo)
					return err
				}

				report.WriteTable(os.Stdout, summary)
				if err := report.WriteRepoLog(cfg.ReportDir(), cfg.Project, summary); err != nil {
					return err
				}
				project.Add(summary)
			}

			if err := report.WriteHTML(cfg.ReportDir(), project); err != nil {
				return err
			}
			fmt.Printf("HTML report written to %s/index.html\n", cfg.ReportDir())

			return nil
		},
	}

	return cmd
}
