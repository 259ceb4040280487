package cmd

import (
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/branchtools/sweep/bitbucket"
	"github.com/branchtools/sweep/cli"
	"github.com/branchtools/sweep/config"
	"github.com/branchtools/sweep/errors"
	"github.com/branchtools/sweep/logging"
	"github.com/branchtools/sweep/report"
	"github.com/branchtools/sweep/sweeper"
)

// timeResolution is how durations are rounded for display
const timeResolution = time.Millisecond

// loadSweepConfig loads and validates sweep.yml, honoring the --config flag
func loadSweepConfig(cmd *cobra.Command) (*config.Config, error) {
	opts := cli.GetOptions(cmd)

	path, err := cli.InitConfig(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errors.ConfigNotFound("sweep.yml")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Configure(cfg.Logging)
	return cfg, nil
}

// newSweeper builds a sweeper backed by the configured Bitbucket server
func newSweeper(cfg *config.Config) (*sweeper.Sweeper, error) {
	client := bitbucket.NewClient(cfg.Server.URL, cfg.Server.Username, cfg.Server.Password)
	return sweeper.New(client, cfg)
}

// thresholdRows renders the retention rules in a stable order, with the
// default rule last.
func thresholdRows(thresholds map[string]int) []report.ThresholdRow {
	var rows []report.ThresholdRow
	for prefix, days := range thresholds {
		if prefix == "default" {
			continue
		}
		rows = append(rows, report.ThresholdRow{Prefix: prefix, Days: days})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Prefix < rows[j].Prefix })
	if days, ok := thresholds["default"]; ok {
		rows = append(rows, report.ThresholdRow{Prefix: "default", Days: days})
	}
	return rows
}
