package bitbucket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchtools/sweep/errors"
)

func TestRepositoriesPaged(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/rest/api/latest/projects/PLAT/repos", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "svc", user)
		assert.Equal(t, "secret", pass)

		if r.URL.Query().Get("start") == "" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"values":        []map[string]string{{"slug": "api", "name": "api"}},
				"isLastPage":    false,
				"nextPageStart": 1,
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"values":     []map[string]string{{"slug": "web", "name": "web"}},
			"isLastPage": true,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "svc", "secret")
	repos, err := client.Repositories(context.Background(), "PLAT")
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "api", repos[0].Slug)
	assert.Equal(t, "web", repos[1].Slug)
	assert.Equal(t, 2, calls)
}

func TestBranchesAndCommitDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/api/latest/projects/PLAT/repos/api/branches":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"values": []map[string]interface{}{
					{"displayId": "master", "latestCommit": "aaa"},
					{"displayId": "feature/login", "latestCommit": "bbb"},
				},
				"isLastPage": true,
			})
		case "/rest/api/1.0/projects/PLAT/repos/api/commits/bbb":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id":                 "bbb",
				"committerTimestamp": time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC).UnixMilli(),
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "svc", "secret")

	branches, err := client.Branches(context.Background(), "PLAT", "api")
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, "feature/login", branches[1].DisplayID)

	when, err := client.LastCommitDate(context.Background(), "PLAT", "api", "bbb")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), when)
}

func TestDeleteBranch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/rest/branch-utils/latest/projects/PLAT/repos/api/branches", r.URL.Path)

		var body struct {
			Name     string `json:"name"`
			EndPoint string `json:"endPoint"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "feature/stale", body.Name)
		assert.Equal(t, "ccc", body.EndPoint)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "svc", "secret")
	err := client.DeleteBranch(context.Background(), "PLAT", "api", "feature/stale", "ccc")
	assert.NoError(t, err)
}

func TestDeleteBranchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := NewClient(server.URL, "svc", "secret")
	err := client.DeleteBranch(context.Background(), "PLAT", "api", "feature/stale", "ccc")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAPIRequest, errors.GetCode(err))
}

func TestDeleteRestrictions(t *testing.T) {
	var deleted []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"values": []map[string]interface{}{
					{"id": 7, "matcher": map[string]string{"displayId": "feature/stale"}},
					{"id": 8, "matcher": map[string]string{"displayId": "master"}},
				},
				"isLastPage": true,
			})
		case r.Method == http.MethodDelete:
			deleted = append(deleted, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "svc", "secret")
	require.NoError(t, client.DeleteRestrictions(context.Background(), "PLAT", "api", "feature/stale"))
	require.Len(t, deleted, 1)
	assert.Contains(t, deleted[0], "/restrictions/7")
}

func TestUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "svc", "wrong")
	_, err := client.Repositories(context.Background(), "PLAT")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeAPIUnauthorized))
}
