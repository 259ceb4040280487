package sweeper

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchtools/sweep/bitbucket"
)

// fakeAPI serves a fixed project snapshot and records deletions.
type fakeAPI struct {
	repos       []bitbucket.Repository
	branches    map[string][]bitbucket.Branch
	commitDates map[string]time.Time
	deleted     []string
	restricted  []string
}

func (f *fakeAPI) Repositories(ctx context.Context, project string) ([]bitbucket.Repository, error) {
	return f.repos, nil
}

func (f *fakeAPI) Branches(ctx context.Context, project, repository string) ([]bitbucket.Branch, error) {
	return f.branches[repository], nil
}

func (f *fakeAPI) LastCommitDate(ctx context.Context, project, repository, commitID string) (time.Time, error) {
	return f.commitDates[commitID], nil
}

func (f *fakeAPI) DeleteRestrictions(ctx context.Context, project, repository, branch string) error {
	f.restricted = append(f.restricted, branch)
	return nil
}

func (f *fakeAPI) DeleteBranch(ctx context.Context, project, repository, branch, endPoint string) error {
	f.deleted = append(f.deleted, branch)
	return nil
}

func newTestSweeper(t *testing.T, api API) *Sweeper {
	t.Helper()

	rules, err := NewRules(map[string]int{"default": 45, "release": 30},
		[]string{"master", "develop"})
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &Sweeper{
		api:     api,
		project: "PLAT",
		rules:   rules,
		store:   NewStore(filepath.Join(t.TempDir(), "state.json")),
		log:     logrus.NewEntry(logger),
		now:     func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func testFakeAPI() *fakeAPI {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return &fakeAPI{
		repos: []bitbucket.Repository{
			{Slug: "api"},
			{Slug: "web-deprecated"},
		},
		branches: map[string][]bitbucket.Branch{
			"api": {
				{DisplayID: "master", LatestCommit: "m1"},
				{DisplayID: "feature/stale", LatestCommit: "s1"},
				{DisplayID: "feature/active", LatestCommit: "a1"},
				{DisplayID: "release/slow", LatestCommit: "r1"},
			},
		},
		commitDates: map[string]time.Time{
			"s1": now.AddDate(0, 0, -60), // stale beyond default 45
			"a1": now.AddDate(0, 0, -2),  // fresh
			"r1": now.AddDate(0, 0, -31), // just past release threshold 30
			"s2": now.AddDate(0, 0, -1),  // revived tip
		},
	}
}

func TestRepositoriesSkipsDeprecated(t *testing.T) {
	s := newTestSweeper(t, testFakeAPI())

	repos, err := s.Repositories(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"api"}, repos)

	// Explicit list bypasses discovery but not the deprecated filter
	repos, err = s.Repositories(context.Background(), []string{"api", "old-deprecated"})
	require.NoError(t, err)
	assert.Equal(t, []string{"api"}, repos)
}

func TestScanClassifiesBranches(t *testing.T) {
	api := testFakeAPI()
	s := newTestSweeper(t, api)

	summary, err := s.Scan(context.Background(), "api")
	require.NoError(t, err)

	byBranch := map[string]Record{}
	for _, r := range summary.Records {
		byBranch[r.Branch] = r
	}

	// master is excluded outright
	assert.NotContains(t, byBranch, "master")

	assert.Equal(t, StatusMarked, byBranch["feature/stale"].Status)
	assert.Equal(t, 60, byBranch["feature/stale"].InactiveDays)
	assert.Equal(t, StatusRetained, byBranch["feature/active"].Status)
	assert.Equal(t, StatusMarked, byBranch["release/slow"].Status)

	// Scan persists its result for the purge run
	stored, err := s.store.Get("api")
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestPurgeDeletesStillStaleBranches(t *testing.T) {
	api := testFakeAPI()
	s := newTestSweeper(t, api)

	_, err := s.Scan(context.Background(), "api")
	require.NoError(t, err)

	summary, err := s.Purge(context.Background(), "api")
	require.NoError(t, err)

	byBranch := map[string]Record{}
	for _, r := range summary.Records {
		byBranch[r.Branch] = r
	}

	assert.Equal(t, StatusDeleted, byBranch["feature/stale"].Status)
	assert.Equal(t, StatusDeleted, byBranch["release/slow"].Status)
	assert.Equal(t, StatusRetained, byBranch["feature/active"].Status)

	assert.ElementsMatch(t, []string{"feature/stale", "release/slow"}, api.deleted)
	// Restrictions are cleared before each deletion
	assert.ElementsMatch(t, []string{"feature/stale", "release/slow"}, api.restricted)

	// Purge consumes the state
	_, err = s.store.Get("api")
	assert.Error(t, err)
}

func TestPurgeRespectsMovedTips(t *testing.T) {
	api := testFakeAPI()
	s := newTestSweeper(t, api)

	_, err := s.Scan(context.Background(), "api")
	require.NoError(t, err)

	// The stale branch got a fresh commit between scan and purge
	api.branches["api"][1].LatestCommit = "s2"

	summary, err := s.Purge(context.Background(), "api")
	require.NoError(t, err)

	byBranch := map[string]Record{}
	for _, r := range summary.Records {
		byBranch[r.Branch] = r
	}

	assert.Equal(t, StatusRetained, byBranch["feature/stale"].Status)
	assert.Equal(t, "s2", byBranch["feature/stale"].LatestCommit)
	assert.NotContains(t, api.deleted, "feature/stale")
}

func TestPurgeSkipsBranchesGoneOutOfBand(t *testing.T) {
	api := testFakeAPI()
	s := newTestSweeper(t, api)

	_, err := s.Scan(context.Background(), "api")
	require.NoError(t, err)

	// Branch deleted by someone else after the scan
	api.branches["api"] = api.branches["api"][:1]

	summary, err := s.Purge(context.Background(), "api")
	require.NoError(t, err)

	for _, r := range summary.Records {
		assert.NotEqual(t, "feature/stale", r.Branch)
	}
	assert.Empty(t, api.deleted)
}

func TestSummaryTotals(t *testing.T) {
	s := &Summary{
		Repository: "api",
		Records: []Record{
			{Status: StatusRetained},
			{Status: StatusMarked},
			{Status: StatusDeleted},
		},
	}
	total, retained, removed := s.Totals()
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, retained)
	assert.Equal(t, 2, removed)
}
