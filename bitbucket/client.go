package bitbucket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/branchtools/sweep/errors"
)

const pageLimit = 1000

// Client talks to the Bitbucket Server REST API.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Bitbucket Server client with basic authentication.
func NewClient(baseURL, username, password string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Repositories lists all repositories of a project.
func (c *Client) Repositories(ctx context.Context, project string) ([]Repository, error) {
	path := fmt.Sprintf("/rest/api/latest/projects/%s/repos", url.PathEscape(project))
	return collect[Repository](ctx, c, path)
}

// Branches lists all branches of a repository.
func (c *Client) Branches(ctx context.Context, project, repository string) ([]Branch, error) {
	path := fmt.Sprintf("/rest/api/latest/projects/%s/repos/%s/branches",
		url.PathEscape(project), url.PathEscape(repository))
	return collect[Branch](ctx, c, path)
}

// LastCommitDate returns the committer time of the given commit.
func (c *Client) LastCommitDate(ctx context.Context, project, repository, commitID string) (time.Time, error) {
	path := fmt.Sprintf("/rest/api/1.0/projects/%s/repos/%s/commits/%s",
		url.PathEscape(project), url.PathEscape(repository), url.PathEscape(commitID))

	var commit Commit
	if err := c.get(ctx, path, nil, &commit); err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(commit.CommitterTimestamp).UTC(), nil
}

// Restrictions lists the branch permission entries of a repository.
func (c *Client) Restrictions(ctx context.Context, project, repository string) ([]Restriction, error) {
	path := fmt.Sprintf("/rest/branch-permissions/latest/projects/%s/repos/%s/restrictions",
		url.PathEscape(project), url.PathEscape(repository))
	return collect[Restriction](ctx, c, path)
}

// DeleteRestrictions removes every permission entry matching the branch so
// a protected branch can be deleted.
func (c *Client) DeleteRestrictions(ctx context.Context, project, repository, branch string) error {
	restrictions, err := c.Restrictions(ctx, project, repository)
	if err != nil {
		return err
	}

	for _, restriction := range restrictions {
		if restriction.Matcher.DisplayID != branch {
			continue
		}
		path := fmt.Sprintf("/rest/branch-permissions/latest/projects/%s/repos/%s/restrictions/%d",
			url.PathEscape(project), url.PathEscape(repository), restriction.ID)
		if err := c.do(ctx, http.MethodDelete, path, nil, nil, http.StatusNoContent); err != nil {
			return errors.Wrap(err, errors.ErrCodeBranchDelete,
				fmt.Sprintf("delete permissions for branch '%s'", branch)).
				WithDetail("branch", branch)
		}
	}

	return nil
}

// DeleteBranch deletes a branch, pinning the expected tip commit.
func (c *Client) DeleteBranch(ctx context.Context, project, repository, branch, endPoint string) error {
	path := fmt.Sprintf("/rest/branch-utils/latest/projects/%s/repos/%s/branches",
		url.PathEscape(project), url.PathEscape(repository))

	body := deleteBranchRequest{Name: branch, EndPoint: endPoint}
	if err := c.do(ctx, http.MethodDelete, path, body, nil, http.StatusNoContent); err != nil {
		if sweepErr, ok := err.(*errors.SweepError); ok {
			return sweepErr
		}
		return errors.Wrap(err, errors.ErrCodeBranchDelete,
			fmt.Sprintf("delete branch '%s'", branch)).
			WithDetail("branch", branch)
	}
	return nil
}

// collect walks a paged collection endpoint until the last page.
func collect[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var all []T
	start := 0
	for {
		query := url.Values{}
		query.Set("limit", fmt.Sprint(pageLimit))
		if start > 0 {
			query.Set("start", fmt.Sprint(start))
		}

		var pg page[T]
		if err := c.get(ctx, path, query, &pg); err != nil {
			return nil, err
		}
		all = append(all, pg.Values...)

		if pg.IsLastPage || pg.NextPageStart == 0 {
			return all, nil
		}
		start = pg.NextPageStart
	}
}

// get performs a GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	full := path
	if len(query) > 0 {
		full = path + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, full, nil, out, http.StatusOK)
}

// do performs a request against the API, optionally sending a JSON body and
// decoding a JSON response. A status other than wantStatus is an error.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, wantStatus int) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "marshal request body")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeAPIRequest, "build request")
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeAPIRequest,
			fmt.Sprintf("%s %s", method, path))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return errors.New(errors.ErrCodeAPIUnauthorized,
			fmt.Sprintf("%s %s: authentication failed (%d)", method, path, resp.StatusCode)).
			WithDetail("status", resp.StatusCode)
	}
	if resp.StatusCode != wantStatus {
		return errors.APIRequest(method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, errors.ErrCodeAPIRequest, "decode response body")
		}
	}
	return nil
}
