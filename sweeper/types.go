package sweeper

// Branch dispositions as they appear in state files and reports.
const (
	StatusRetained = "RETAINED"
	StatusMarked   = "MARKED FOR DELETION"
	StatusDeleted  = "DELETED"
)

// Record is the disposition of one branch after a scan or purge pass.
type Record struct {
	Branch       string `json:"branch"`
	LatestCommit string `json:"latestCommit"`
	InactiveDays int    `json:"inactiveDays"`
	Status       string `json:"status"`
}

// Summary aggregates the dispositions of one repository.
type Summary struct {
	Repository string   `json:"repository"`
	Records    []Record `json:"records"`
}

// Totals counts dispositions for reporting.
func (s *Summary) Totals() (total, retained, removed int) {
	total = len(s.Records)
	for _, r := range s.Records {
		switch r.Status {
		case StatusRetained:
			retained++
		case StatusMarked, StatusDeleted:
			removed++
		}
	}
	return total, retained, removed
}
