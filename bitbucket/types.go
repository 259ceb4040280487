package bitbucket

// Repository is one repository of a Bitbucket project.
type Repository struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	State string `json:"state,omitempty"`
}

// Branch is one branch of a repository. LatestCommit is the tip commit hash.
type Branch struct {
	ID           string `json:"id"`
	DisplayID    string `json:"displayId"`
	LatestCommit string `json:"latestCommit"`
	IsDefault    bool   `json:"isDefault,omitempty"`
}

// Commit carries the subset of commit metadata the sweeper needs.
// CommitterTimestamp is milliseconds since the Unix epoch.
type Commit struct {
	ID                 string `json:"id"`
	CommitterTimestamp int64  `json:"committerTimestamp"`
}

// Restriction is a branch permission entry. Deleting a branch requires its
// restrictions to be removed first.
type Restriction struct {
	ID      int `json:"id"`
	Matcher struct {
		ID        string `json:"id"`
		DisplayID string `json:"displayId"`
	} `json:"matcher"`
}

// page is the envelope Bitbucket wraps paged collection responses in.
type page[T any] struct {
	Values        []T  `json:"values"`
	IsLastPage    bool `json:"isLastPage"`
	NextPageStart int  `json:"nextPageStart"`
}

// deleteBranchRequest is the body of a branch deletion call. EndPoint pins
// the expected tip so a branch that moved since scanning is not deleted.
type deleteBranchRequest struct {
	Name     string `json:"name"`
	EndPoint string `json:"endPoint,omitempty"`
}
