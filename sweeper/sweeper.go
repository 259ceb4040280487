package sweeper

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/branchtools/sweep/bitbucket"
	"github.com/branchtools/sweep/config"
	"github.com/branchtools/sweep/logging"
)

// maxInFlight bounds the concurrent commit lookups per repository.
const maxInFlight = 8

// API is the subset of the Bitbucket client the sweeper needs.
type API interface {
	Repositories(ctx context.Context, project string) ([]bitbucket.Repository, error)
	Branches(ctx context.Context, project, repository string) ([]bitbucket.Branch, error)
	LastCommitDate(ctx context.Context, project, repository, commitID string) (time.Time, error)
	DeleteRestrictions(ctx context.Context, project, repository, branch string) error
	DeleteBranch(ctx context.Context, project, repository, branch, endPoint string) error
}

var _ API = (*bitbucket.Client)(nil)

// Sweeper scans repositories for stale branches and purges previously
// marked ones.
type Sweeper struct {
	api     API
	project string
	rules   *Rules
	store   *Store
	log     *logrus.Entry

	// now is swappable for tests.
	now func() time.Time
}

// New creates a sweeper from the loaded configuration.
func New(api API, cfg *config.Config) (*Sweeper, error) {
	rules, err := NewRules(cfg.Thresholds, cfg.ExcludedPatterns())
	if err != nil {
		return nil, err
	}

	return &Sweeper{
		api:     api,
		project: cfg.Project,
		rules:   rules,
		store:   NewStore(cfg.StatePath()),
		log:     logging.NewLogger("sweeper"),
		now:     time.Now,
	}, nil
}

// Repositories resolves the repositories to sweep: the configured list, or
// every repository of the project. Repositories whose name marks them as
// deprecated are skipped.
func (s *Sweeper) Repositories(ctx context.Context, configured []string) ([]string, error) {
	names := configured
	if len(names) == 0 {
		repos, err := s.api.Repositories(ctx, s.project)
		if err != nil {
			return nil, err
		}
		for _, repo := range repos {
			names = append(names, repo.Slug)
		}
	}

	var kept []string
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), "deprecated") {
			s.log.Infof("Deprecated repo %s will be skipped", name)
			continue
		}
		kept = append(kept, name)
	}
	return kept, nil
}

// Scan classifies every branch of the repository as retained or marked for
// deletion and persists the result for a later purge run.
func (s *Sweeper) Scan(ctx context.Context, repository string) (*Summary, error) {
	branches, err := s.api.Branches(ctx, s.project, repository)
	if err != nil {
		return nil, err
	}
	s.log.WithField("repository", repository).Infof("%d branches to consider", len(branches))

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		sem      = make(chan struct{}, maxInFlight)
		records  []Record
		firstErr error
	)

	for i, branch := range branches {
		if s.rules.Excluded(branch.DisplayID) {
			s.log.Infof("(%d/%d) Excluding : %s", i+1, len(branches), branch.DisplayID)
			continue
		}
		s.log.Infof("(%d/%d) Processing : %s", i+1, len(branches), branch.DisplayID)

		wg.Add(1)
		sem <- struct{}{}
		go func(b bitbucket.Branch) {
			defer wg.Done()
			defer func() { <-sem }()

			record, err := s.classify(ctx, repository, b)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			records = append(records, record)
		}(branch)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Branch < records[j].Branch })

	if err := s.store.Set(repository, records); err != nil {
		return nil, err
	}

	return &Summary{Repository: repository, Records: records}, nil
}

// classify computes a branch's inactivity and disposition.
func (s *Sweeper) classify(ctx context.Context, repository string, branch bitbucket.Branch) (Record, error) {
	lastCommit, err := s.api.LastCommitDate(ctx, s.project, repository, branch.LatestCommit)
	if err != nil {
		return Record{}, err
	}

	inactive := s.inactiveDays(lastCommit)
	status := StatusRetained
	if inactive > s.rules.Threshold(branch.DisplayID) {
		status = StatusMarked
	}

	return Record{
		Branch:       branch.DisplayID,
		LatestCommit: branch.LatestCommit,
		InactiveDays: inactive,
		Status:       status,
	}, nil
}

// Purge deletes the branches a previous scan marked, re-checking each one
// against the current branch tips first. Branches whose tip moved are
// re-measured; anything no longer stale is retained.
func (s *Sweeper) Purge(ctx context.Context, repository string) (*Summary, error) {
	scanned, err := s.store.Get(repository)
	if err != nil {
		return nil, err
	}

	branches, err := s.api.Branches(ctx, s.project, repository)
	if err != nil {
		return nil, err
	}
	tips := make(map[string]string, len(branches))
	for _, branch := range branches {
		tips[branch.DisplayID] = branch.LatestCommit
	}

	var records []Record
	for i, record := range scanned {
		s.log.Infof("(%d/%d) Processing : %s", i+1, len(scanned), record.Branch)

		current, exists := tips[record.Branch]
		if !exists {
			// Deleted out of band since the scan; nothing to do.
			continue
		}

		inactive := record.InactiveDays
		if current != record.LatestCommit {
			lastCommit, err := s.api.LastCommitDate(ctx, s.project, repository, current)
			if err != nil {
				return nil, err
			}
			inactive = s.inactiveDays(lastCommit)
			record.LatestCommit = current
		}
		record.InactiveDays = inactive

		if record.Status == StatusMarked && inactive > s.rules.Threshold(record.Branch) {
			if err := s.deleteBranch(ctx, repository, record.Branch, record.LatestCommit); err != nil {
				return nil, err
			}
			record.Status = StatusDeleted
		} else {
			record.Status = StatusRetained
		}
		records = append(records, record)
	}

	if err := s.store.Delete(repository); err != nil {
		return nil, err
	}

	return &Summary{Repository: repository, Records: records}, nil
}

func (s *Sweeper) deleteBranch(ctx context.Context, repository, branch, endPoint string) error {
	if err := s.api.DeleteRestrictions(ctx, s.project, repository, branch); err != nil {
		return err
	}
	if err := s.api.DeleteBranch(ctx, s.project, repository, branch, endPoint); err != nil {
		return err
	}
	s.log.WithField("repository", repository).Infof("Deleted branch %s", branch)
	return nil
}

func (s *Sweeper) inactiveDays(lastCommit time.Time) int {
	return int(s.now().UTC().Sub(lastCommit).Hours() / 24)
}
