package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/branchtools/sweep/errors"
	"github.com/branchtools/sweep/sweeper"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Branch Sweep Summary</title>
    <style>
    body { font-family: arial, sans-serif; }
    table { border-collapse: collapse; }
    td, th { border: 1px solid #dddddd; text-align: center; padding: 8px; }
    tr:nth-child(even) { background-color: #dddddd; }
    li { padding-bottom: 8px; }
    </style>
</head>
<body>
    <h3>Branch Maintenance - {{.Project}}</h3>

    <h4>Rule for Purging</h4>
    <p>
    Branches without any commits for consecutive days of the retention period below
    are candidates for purging, except for excluded mainline branches.
    <br/>
    Deprecated repos are excluded.
    </p>
    <ol>
    {{- range .Thresholds}}
        <li>{{.Prefix}} - Retention period is {{.Days}} days</li>
    {{- end}}
    </ol>
    <h4>Summary</h4>
    <i>Generated {{.Generated.Format "2006-01-02"}}. For a detailed log please refer to the attachment.</i>
    <table>
        <tr>
            <th>Repository</th>
            <th>Total Branches</th>
            <th># of branches retained</th>
            <th># of branches {{.Action}}</th>
        </tr>
        {{- range .Rows}}
        <tr>
            <td>{{.Repository}}</td>
            <td>{{.Total}}</td>
            <td>{{.Retained}}</td>
            <td>{{.Removed}}</td>
        </tr>
        {{- end}}
    </table>
</body>
</html>
`

// ThresholdRow is one retention rule rendered in the summary.
type ThresholdRow struct {
	Prefix string
	Days   int
}

// RepoTotals is one repository row of the HTML summary.
type RepoTotals struct {
	Repository string
	Total      int
	Retained   int
	Removed    int
}

// ProjectSummary is the data behind the HTML report.
type ProjectSummary struct {
	Project    string
	Action     string // "marked for deletion" after a scan, "deleted" after a purge
	Generated  time.Time
	Thresholds []ThresholdRow
	Rows       []RepoTotals
}

// Add folds a repository summary into the project totals. Repositories
// where nothing was marked or deleted stay out of the table.
func (p *ProjectSummary) Add(summary *sweeper.Summary) {
	total, retained, removed := summary.Totals()
	if removed == 0 {
		return
	}
	p.Rows = append(p.Rows, RepoTotals{
		Repository: summary.Repository,
		Total:      total,
		Retained:   retained,
		Removed:    removed,
	})
}

// WriteHTML renders the project summary into dir/index.html.
func WriteHTML(dir string, data *ProjectSummary) error {
	if data.Generated.IsZero() {
		data.Generated = time.Now()
	}

	tmpl, err := template.New("summary").Parse(htmlTemplate)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "parse report template")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "create report directory").
			WithDetail("dir", dir)
	}

	path := filepath.Join(dir, "index.html")
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "create report file").
			WithDetail("path", path)
	}
	defer file.Close()

	if err := tmpl.Execute(file, data); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "render report")
	}
	return nil
}

// WriteRepoLog appends a plain-text disposition table for one repository
// to the project's dated log file.
func WriteRepoLog(dir, project string, summary *sweeper.Summary) error {
	if len(summary.Records) == 0 {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "create report directory").
			WithDetail("dir", dir)
	}

	name := fmt.Sprintf("%s-branch-purging-%s.log",
		strings.ToUpper(project), time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "open report log").
			WithDetail("path", path)
	}
	defer file.Close()

	divider := strings.Repeat("=", 100)
	fmt.Fprintf(file, "\n%s\n%s - %s\n%s\n\n",
		divider, strings.ToUpper(project), strings.ToUpper(summary.Repository), divider)

	for _, line := range FormatRecords(summary.Records) {
		fmt.Fprintln(file, line)
	}
	fmt.Fprintln(file)
	return nil
}

// FormatRecords renders records as aligned text columns with a header.
func FormatRecords(records []sweeper.Record) []string {
	header := []string{"BRANCH", "LAST COMMIT", "INACTIVE (days)", "STATUS"}

	widths := make([]int, len(header))
	for i, cell := range header {
		widths[i] = len(cell)
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		row := []string{record.Branch, record.LatestCommit,
			fmt.Sprint(record.InactiveDays), record.Status}
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
		rows = append(rows, row)
	}

	formatRow := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		return strings.TrimRight(strings.Join(parts, " "), " ")
	}

	separator := make([]string, len(header))
	for i, cell := range header {
		separator[i] = strings.Repeat("-", len(cell))
	}

	lines := []string{formatRow(header), formatRow(separator)}
	for _, row := range rows {
		lines = append(lines, formatRow(row))
	}
	return lines
}
